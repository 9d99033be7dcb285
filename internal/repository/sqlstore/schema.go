package sqlstore

// Timestamps are stored as unix nanoseconds so both dialects order them identically.

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chats_user_updated ON chats(user_id, updated_at)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		chat_id TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		role TEXT NOT NULL CHECK (role IN ('user', 'ai')),
		content TEXT NOT NULL,
		meta TEXT,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages(chat_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS ledger (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount REAL NOT NULL,
		type TEXT NOT NULL,
		category TEXT,
		description TEXT NOT NULL,
		date TEXT NOT NULL,
		payment_mode TEXT NOT NULL DEFAULT 'Online',
		is_digital INTEGER NOT NULL DEFAULT 0,
		customer_gstin TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		business_type TEXT,
		turnover_ytd REAL,
		tax_regime TEXT,
		full_name TEXT,
		gst_number TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS schemes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		benefit_summary TEXT,
		official_link TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		applicable_to TEXT,
		loans TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS action_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		due_date TEXT,
		status TEXT NOT NULL DEFAULT 'open'
	)`,
	`CREATE TABLE IF NOT EXISTS daily_reports (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		report_date TEXT NOT NULL,
		summary TEXT
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS chats (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		title VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		INDEX idx_chats_user_updated (user_id, updated_at)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id CHAR(36) PRIMARY KEY,
		chat_id CHAR(36) NOT NULL,
		role VARCHAR(8) NOT NULL,
		content TEXT NOT NULL,
		meta JSON NULL,
		created_at BIGINT NOT NULL,
		INDEX idx_messages_chat_created (chat_id, created_at),
		FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
	)`,
	"CREATE TABLE IF NOT EXISTS ledger (" +
		"id CHAR(36) PRIMARY KEY, user_id VARCHAR(255) NOT NULL, amount DECIMAL(14,2) NOT NULL, " +
		"`type` VARCHAR(16) NOT NULL, category VARCHAR(255), description TEXT NOT NULL, `date` DATETIME NOT NULL, " +
		"payment_mode VARCHAR(64) NOT NULL DEFAULT 'Online', is_digital BOOLEAN NOT NULL DEFAULT FALSE, " +
		"customer_gstin VARCHAR(32), INDEX idx_ledger_user_date (user_id, `date`))",
	`CREATE TABLE IF NOT EXISTS profiles (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL UNIQUE,
		business_type VARCHAR(255),
		turnover_ytd DECIMAL(16,2),
		tax_regime VARCHAR(64),
		full_name VARCHAR(255),
		gst_number VARCHAR(32)
	)`,
	`CREATE TABLE IF NOT EXISTS schemes (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		benefit_summary TEXT,
		official_link VARCHAR(1024)
	)`,
	`CREATE TABLE IF NOT EXISTS rules (
		id CHAR(36) PRIMARY KEY,
		content TEXT NOT NULL,
		applicable_to VARCHAR(255),
		loans TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS action_items (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		title VARCHAR(255) NOT NULL,
		due_date DATE,
		status VARCHAR(32) NOT NULL DEFAULT 'open',
		INDEX idx_action_items_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_reports (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		report_date DATE NOT NULL,
		summary TEXT,
		INDEX idx_daily_reports_user (user_id, report_date)
	)`,
}
