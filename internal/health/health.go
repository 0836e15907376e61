package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type HealthChecker struct {
	db      *sql.DB
	dataDir string
	cache   func() bool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds host resources to the basic status.
type DetailedStatus struct {
	HealthStatus
	Disk   *DiskHealth   `json:"disk,omitempty"`
	Memory *MemoryHealth `json:"memory,omitempty"`
	Cache  string        `json:"cache"`
}

type DiskHealth struct {
	Path        string  `json:"path"`
	Total       string  `json:"total"`
	Free        string  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

type MemoryHealth struct {
	Total       string  `json:"total"`
	UsedPercent float64 `json:"used_percent"`
}

// NewHealthChecker checks db and reports disk usage of dataDir. cacheHealthy
// may be nil when no cache is configured.
func NewHealthChecker(db *sql.DB, dataDir string, cacheHealthy func() bool) *HealthChecker {
	return &HealthChecker{db: db, dataDir: dataDir, cache: cacheHealthy}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	out := DetailedStatus{HealthStatus: h.CheckBasic(ctx), Cache: "disabled"}

	if usage, err := disk.UsageWithContext(ctx, h.dataDir); err == nil {
		out.Disk = &DiskHealth{
			Path:        usage.Path,
			Total:       formatBytes(usage.Total),
			Free:        formatBytes(usage.Free),
			UsedPercent: usage.UsedPercent,
		}
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		out.Memory = &MemoryHealth{Total: formatBytes(vm.Total), UsedPercent: vm.UsedPercent}
	}
	if h.cache != nil {
		out.Cache = "unhealthy"
		if h.cache() {
			out.Cache = "healthy"
		}
	}
	return out
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
