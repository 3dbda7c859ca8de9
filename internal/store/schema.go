package store

// schemaVersion is stored in PRAGMA user_version. Opening an older cache
// drops the event tables so every file is reparsed; saved scenarios stay.
const schemaVersion = 2

const resetEventsSQL = `
DROP TABLE IF EXISTS events;
DROP TABLE IF EXISTS file_tracker;
`

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parse_errors         INTEGER NOT NULL DEFAULT 0,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    date                 TEXT NOT NULL,
    value                REAL NOT NULL,
    priority             INTEGER NOT NULL DEFAULT 0,
    vendor               TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (file_path, seq)
);

CREATE TABLE IF NOT EXISTS scenarios (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    delay_days           INTEGER NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_created ON scenarios(created_at);
`
