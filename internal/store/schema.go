package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS submission (
    slot                 TEXT PRIMARY KEY,
    submission_id        TEXT NOT NULL,
    payload              TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS constants_override (
    slot                 TEXT PRIMARY KEY,
    version              TEXT NOT NULL,
    payload              TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evidence_items (
    evidence_id          TEXT PRIMARY KEY,
    evidence_type        TEXT NOT NULL UNIQUE,
    url                  TEXT NOT NULL DEFAULT '',
    file_ids             TEXT NOT NULL DEFAULT '[]',
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evidence_files (
    file_id              TEXT PRIMARY KEY,
    evidence_id          TEXT NOT NULL REFERENCES evidence_items(evidence_id) ON DELETE CASCADE,
    filename             TEXT NOT NULL,
    mime                 TEXT NOT NULL,
    size_bytes           INTEGER NOT NULL,
    sha256               TEXT NOT NULL,
    data                 BLOB NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evidence_files_item ON evidence_files(evidence_id);
`
