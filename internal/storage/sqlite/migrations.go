package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Participant identity is denormalized onto every owning row (id, name,
// email) because participants are value copies, not shared references.
const schema = `
CREATE TABLE IF NOT EXISTS meal_systems (
    id TEXT PRIMARY KEY,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    total_persons INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS system_participants (
    system_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (system_id, participant_id),
    FOREIGN KEY (system_id) REFERENCES meal_systems(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS meal_records (
    id TEXT PRIMARY KEY,
    system_id TEXT NOT NULL,
    date TEXT NOT NULL,
    bulk INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (system_id) REFERENCES meal_systems(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_meal_records_system_date
    ON meal_records(system_id, date) WHERE bulk = 0;

CREATE TABLE IF NOT EXISTS meal_entries (
    record_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    lunch_count INTEGER NOT NULL,
    dinner_count INTEGER NOT NULL,
    PRIMARY KEY (record_id, participant_id),
    FOREIGN KEY (record_id) REFERENCES meal_records(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    system_id TEXT NOT NULL,
    date TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    paid_by_id TEXT NOT NULL,
    paid_by_name TEXT NOT NULL,
    paid_by_email TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (system_id) REFERENCES meal_systems(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS meal_settlements (
    id TEXT PRIMARY KEY,
    system_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    person_name TEXT NOT NULL,
    person_email TEXT NOT NULL,
    total_meals INTEGER NOT NULL,
    per_meal_cost REAL NOT NULL,
    personal_share REAL NOT NULL,
    amount_paid REAL NOT NULL,
    balance REAL NOT NULL,
    balance_type TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (system_id) REFERENCES meal_systems(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS final_settlements (
    id TEXT PRIMARY KEY,
    system_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    person_name TEXT NOT NULL,
    person_email TEXT NOT NULL,
    previous_amount_paid REAL NOT NULL,
    personal_share REAL NOT NULL,
    meal_balance REAL NOT NULL,
    meal_balance_type TEXT NOT NULL,
    total_bills REAL NOT NULL,
    final_balance REAL NOT NULL,
    final_type TEXT NOT NULL,
    UNIQUE (system_id, person_id),
    FOREIGN KEY (system_id) REFERENCES meal_systems(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS final_settlement_bills (
    final_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    kind TEXT NOT NULL,
    custom_name TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    ignored INTEGER NOT NULL,
    PRIMARY KEY (final_id, position),
    FOREIGN KEY (final_id) REFERENCES final_settlements(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_system_participants_system ON system_participants(system_id);
CREATE INDEX IF NOT EXISTS idx_meal_records_system ON meal_records(system_id);
CREATE INDEX IF NOT EXISTS idx_meal_entries_record ON meal_entries(record_id);
CREATE INDEX IF NOT EXISTS idx_expenses_system ON expenses(system_id);
CREATE INDEX IF NOT EXISTS idx_meal_settlements_system ON meal_settlements(system_id);
CREATE INDEX IF NOT EXISTS idx_final_settlements_system ON final_settlements(system_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
