package journal

const Schema = `
CREATE TABLE IF NOT EXISTS debt_results (
	run_id TEXT NOT NULL,
	as_of DATETIME NOT NULL,
	debt_id TEXT NOT NULL,
	currency TEXT NOT NULL,
	net_disbursed REAL NOT NULL,
	total_to_repay REAL NOT NULL,
	accrued_interest REAL NOT NULL,
	total_interest REAL NOT NULL,
	ted REAL NOT NULL,
	cft REAL NOT NULL,
	rate_source TEXT NOT NULL,
	cft_ref REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS holding_results (
	run_id TEXT NOT NULL,
	as_of DATETIME NOT NULL,
	instrument_id TEXT NOT NULL,
	quantity REAL NOT NULL,
	cost_basis REAL NOT NULL,
	market_value REAL NOT NULL,
	realized_pl REAL NOT NULL,
	unrealized_pl REAL NOT NULL,
	tea REAL NOT NULL,
	active INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS arbitrage_results (
	run_id TEXT NOT NULL,
	as_of DATETIME NOT NULL,
	op_id TEXT NOT NULL,
	settled INTEGER NOT NULL,
	closing_rate REAL NOT NULL,
	real_pl REAL NOT NULL,
	internal_pl REAL NOT NULL,
	spread_pl REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_debt_results_run ON debt_results(run_id);
CREATE INDEX IF NOT EXISTS idx_holding_results_run ON holding_results(run_id);
CREATE INDEX IF NOT EXISTS idx_arbitrage_results_run ON arbitrage_results(run_id);
`
