package config

import (
	"time"

	"github.com/spf13/viper"
)

// BackupConfig points at an S3-compatible bucket (Cloudflare R2 by default)
// that receives store snapshots. Backups are disabled while Bucket is empty.
type BackupConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	Interval        time.Duration `mapstructure:"interval"`
}

func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}

func setBackupDefaults(v *viper.Viper) {
	v.SetDefault("backup.region", "auto")
	v.SetDefault("backup.key_prefix", "nxq/backups")
	v.SetDefault("backup.interval", time.Duration(0))
	// AutomaticEnv only resolves keys viper already knows about
	v.SetDefault("backup.endpoint", "")
	v.SetDefault("backup.bucket", "")
	v.SetDefault("backup.access_key_id", "")
	v.SetDefault("backup.secret_access_key", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
}
