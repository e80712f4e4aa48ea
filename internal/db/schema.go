package db

const schemaVersion = 1

// The UNIQUE indexes on (application_id, number) and (chat_id, number) are the
// system of record for sequence uniqueness. The in-memory counter is only an
// optimization; a collision here is what the allocator's retry loop absorbs.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS applications (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL CHECK(length(name) > 0 AND length(name) <= 255),
    chats_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    application_id TEXT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
    number INTEGER NOT NULL CHECK(number > 0),
    messages_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    chat_id TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
    number INTEGER NOT NULL CHECK(number > 0),
    body TEXT NOT NULL CHECK(length(body) > 0),
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_chats_app_number ON chats(application_id, number);
CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_chat_number ON messages(chat_id, number);
CREATE INDEX IF NOT EXISTS idx_chats_application_id ON chats(application_id);
CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id);
`
