package database

// baseSchema creates the six relations on a fresh store. Columns that older
// stores lack are added by the migration chain, never here.
var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		role TEXT DEFAULT 'admin',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_login DATETIME,
		is_active BOOLEAN DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS schemes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		prefix TEXT UNIQUE NOT NULL,
		start_date DATE NOT NULL,
		duration INTEGER NOT NULL,
		amounts TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scheme_id INTEGER,
		customer_code TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		start_date DATE NOT NULL,
		monthly_amount DECIMAL(10,2) NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (scheme_id) REFERENCES schemes (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		scheme_id INTEGER NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		payment_date DATE NOT NULL,
		month_year TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		transaction_id TEXT,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE,
		FOREIGN KEY (scheme_id) REFERENCES schemes (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS winners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		scheme_id INTEGER NOT NULL,
		month_year TEXT NOT NULL,
		gold_rate DECIMAL(10,2) NOT NULL,
		winning_amount DECIMAL(10,2) NOT NULL,
		position INTEGER NOT NULL,
		is_delivered BOOLEAN DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE,
		FOREIGN KEY (scheme_id) REFERENCES schemes (id) ON DELETE CASCADE,
		UNIQUE(customer_id, month_year)
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		winner_id INTEGER NOT NULL,
		bill_number TEXT NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		delivery_date DATETIME DEFAULT CURRENT_TIMESTAMP,
		notes TEXT,
		FOREIGN KEY (winner_id) REFERENCES winners (id) ON DELETE CASCADE
	)`,
}

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_customers_scheme ON customers (scheme_id)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_code ON customers (customer_code)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_customer ON payments (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_scheme_month ON payments (scheme_id, month_year)`,
	`CREATE INDEX IF NOT EXISTS idx_winners_scheme ON winners (scheme_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_winner ON deliveries (winner_id)`,
}
