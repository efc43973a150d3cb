package store

// schema contains the SQL statements to create the export database schema.
const schema = `
-- Runs table, one row per export
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    created_at  TEXT NOT NULL,
    root        TEXT NOT NULL,
    profile     TEXT NOT NULL,
    restriction TEXT NOT NULL,
    sort_order  TEXT NOT NULL,
    likelihoods TEXT NOT NULL
);

-- Tokens table
CREATE TABLE IF NOT EXISTS tokens (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id     TEXT NOT NULL,
    spelling   TEXT NOT NULL,
    status     TEXT NOT NULL,
    reason     TEXT NOT NULL,
    first_path TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_tokens_run ON tokens(run_id);
CREATE INDEX IF NOT EXISTS idx_tokens_spelling ON tokens(spelling);
CREATE INDEX IF NOT EXISTS idx_tokens_status ON tokens(status);

-- Definitions table
CREATE TABLE IF NOT EXISTS definitions (
    token_id  INTEGER NOT NULL,
    name      TEXT NOT NULL,
    file_path TEXT NOT NULL,
    language  TEXT,
    kind      TEXT NOT NULL,
    address   TEXT,
    FOREIGN KEY (token_id) REFERENCES tokens(id)
);

CREATE INDEX IF NOT EXISTS idx_definitions_token ON definitions(token_id);
CREATE INDEX IF NOT EXISTS idx_definitions_file ON definitions(file_path);

-- Occurrences table
CREATE TABLE IF NOT EXISTS occurrences (
    token_id  INTEGER NOT NULL,
    file_path TEXT NOT NULL,
    line      INTEGER NOT NULL,
    col       INTEGER NOT NULL,
    FOREIGN KEY (token_id) REFERENCES tokens(id)
);

CREATE INDEX IF NOT EXISTS idx_occurrences_token ON occurrences(token_id);
CREATE INDEX IF NOT EXISTS idx_occurrences_file ON occurrences(file_path);

-- Metadata table
CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT
);
`
