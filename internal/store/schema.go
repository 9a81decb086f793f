package store

const schema = `
-- The 'cards' table stores each card's content and its FSRS schedule.
-- card_id and hash both identify a card: card_id is the scheduling key
-- (see internal/knol.CardID), hash is the human-auditable content digest
-- it was derived from.
CREATE TABLE IF NOT EXISTS cards (
    card_id     INTEGER PRIMARY KEY,
    hash        TEXT NOT NULL UNIQUE,
    question    TEXT NOT NULL,
    answer      TEXT NOT NULL,
    context     TEXT,
    state       INTEGER NOT NULL,
    step        INTEGER,
    stability   REAL,
    difficulty  REAL,
    due         DATETIME NOT NULL,
    last_review DATETIME,
    source_id   INTEGER,

    FOREIGN KEY(source_id) REFERENCES sources(id)
);

CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(due);

-- The 'sources' table tracks the origin of the cards, either a local
-- directory or a git repository URL.
CREATE TABLE IF NOT EXISTS sources (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    path         TEXT NOT NULL UNIQUE,
    type         TEXT NOT NULL,
    last_scanned DATETIME
);

-- The 'review_logs' table is an append-only history of reviews, one row per
-- fsrs.ReviewLog produced by the scheduler.
CREATE TABLE IF NOT EXISTS review_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    card_id         INTEGER NOT NULL,
    rating          INTEGER NOT NULL,
    review_datetime DATETIME NOT NULL,
    review_duration INTEGER,

    FOREIGN KEY(card_id) REFERENCES cards(card_id)
);
`
