package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Quantities are stored as decimal TEXT so fractional split payments round-trip
// exactly; money is INTEGER cents.
// IMPORTANT: dining_tables must be created BEFORE orders due to foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS dining_tables (
    id TEXT PRIMARY KEY,
    number TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    client_id TEXT,
    session_token TEXT,
    client_name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'open',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (table_id) REFERENCES dining_tables(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    product_id TEXT NOT NULL,
    product_name TEXT NOT NULL,
    quantity TEXT NOT NULL,
    paid_quantity TEXT NOT NULL DEFAULT '0',
    unit_price INTEGER NOT NULL,
    PRIMARY KEY (order_id, position),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    table_number TEXT NOT NULL,
    payment_method TEXT NOT NULL,
    subtotal INTEGER NOT NULL,
    total_discount INTEGER NOT NULL,
    final_total INTEGER NOT NULL,
    notes TEXT,
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (table_id) REFERENCES dining_tables(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlement_orders (
    settlement_id TEXT NOT NULL,
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (settlement_id, order_id),
    FOREIGN KEY (settlement_id) REFERENCES settlements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlement_lines (
    settlement_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    line_key TEXT NOT NULL,
    order_id TEXT NOT NULL,
    order_item_id TEXT NOT NULL,
    product_id TEXT NOT NULL,
    product_name TEXT NOT NULL,
    quantity TEXT NOT NULL,
    unit_price INTEGER NOT NULL,
    subtotal INTEGER NOT NULL,
    final_price INTEGER NOT NULL,
    discount_kind TEXT,
    discount_percent TEXT,
    discount_amount INTEGER,
    discount_description TEXT,
    split_index INTEGER NOT NULL DEFAULT 0,
    total_splits INTEGER NOT NULL DEFAULT 0,
    parent_item_id TEXT,
    PRIMARY KEY (settlement_id, position),
    FOREIGN KEY (settlement_id) REFERENCES settlements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS staff (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_table_id ON orders(table_id);
CREATE INDEX IF NOT EXISTS idx_settlements_table_id ON settlements(table_id);
CREATE INDEX IF NOT EXISTS idx_settlement_lines_settlement_id ON settlement_lines(settlement_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
