package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Settings: single-value keys written by "config set-key", read by the relay
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Problems: last extraction seen for each problem page
CREATE TABLE IF NOT EXISTS problems (
    problem_id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_url TEXT NOT NULL UNIQUE,
    domain TEXT NOT NULL,
    platform TEXT NOT NULL,
    title TEXT NOT NULL,
    slug TEXT,
    contest_id TEXT,
    problem_index TEXT,
    difficulty TEXT,
    -- Tags as JSON array: ["Array", "Hash Table"]
    tags TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_problems_platform ON problems(platform);

-- Hint requests: every relay invocation, successful or not
CREATE TABLE IF NOT EXISTS hint_requests (
    request_id INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id TEXT,
    platform TEXT,
    title TEXT,
    success BOOLEAN NOT NULL,
    error_message TEXT,
    hint_count INTEGER DEFAULT 0,
    duration_ms INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_hint_requests_time ON hint_requests(created_at);
CREATE INDEX IF NOT EXISTS idx_hint_requests_success ON hint_requests(success);
`
