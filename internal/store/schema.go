package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS experiments (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL,
    comment              TEXT,
    date                 TEXT
);

CREATE TABLE IF NOT EXISTS parameters (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    experiment_id        INTEGER NOT NULL REFERENCES experiments(id),
    name                 TEXT NOT NULL CHECK (name <> ''),
    value                TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outputs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    experiment_id        INTEGER NOT NULL REFERENCES experiments(id),
    type                 TEXT NOT NULL,
    path                 TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    experiment_id        INTEGER NOT NULL REFERENCES experiments(id),
    type                 TEXT NOT NULL,
    value                REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    experiments          INTEGER NOT NULL DEFAULT 0,
    digest               TEXT NOT NULL DEFAULT '',
    digest_bytes         INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_parameters_experiment ON parameters(experiment_id);
CREATE INDEX IF NOT EXISTS idx_parameters_name_value ON parameters(name, value);
CREATE INDEX IF NOT EXISTS idx_outputs_experiment ON outputs(experiment_id);
CREATE INDEX IF NOT EXISTS idx_scores_experiment ON scores(experiment_id);
CREATE INDEX IF NOT EXISTS idx_scores_type_value ON scores(type, value);
`
