package repository

// Schema statements applied at startup. All are idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS portfolios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`INSERT INTO portfolios (id, name, description)
		SELECT 1, 'Main Portfolio', 'My main ETF portfolio'
		WHERE NOT EXISTS (SELECT 1 FROM portfolios WHERE id = 1)`,
	`CREATE TABLE IF NOT EXISTS investments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		portfolio_id INTEGER NOT NULL DEFAULT 1,
		ticker TEXT NOT NULL,
		shares REAL NOT NULL,
		buy_price REAL NOT NULL,
		buy_date TEXT NOT NULL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (portfolio_id) REFERENCES portfolios(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_investments_ticker ON investments(ticker)`,
	`CREATE INDEX IF NOT EXISTS idx_investments_portfolio ON investments(portfolio_id)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		portfolio_id INTEGER NOT NULL,
		ticker TEXT,
		alert_type TEXT NOT NULL,
		condition_type TEXT NOT NULL,
		threshold_value REAL NOT NULL,
		message TEXT,
		is_active INTEGER DEFAULT 1,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		last_triggered TEXT,
		FOREIGN KEY (portfolio_id) REFERENCES portfolios(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_portfolio ON alerts(portfolio_id)`,
}

// SchemaStatements returns the startup DDL for the store.
func SchemaStatements() []string {
	return schemaStatements
}
