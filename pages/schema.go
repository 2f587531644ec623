package pages

// Schema is the complete pages schema. Applied idempotently on every Open.
const Schema = `
CREATE TABLE IF NOT EXISTS pages (
    path            TEXT PRIMARY KEY,
    html_content    TEXT NOT NULL,
    prompt_history  TEXT NOT NULL DEFAULT '[]',
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);
`
