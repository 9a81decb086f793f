// Package store persists card content and FSRS schedule state to SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/knolcards/internal/domain"
	"github.com/conorfennell/knolcards/internal/fsrs"
	_ "modernc.org/sqlite" // registers the sqlite driver
)

// Store wraps the SQL database connection.
type Store struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is current.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{conn: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// CardRecord is a card's content alongside its FSRS schedule state, as
// stored in the cards table.
type CardRecord struct {
	Hash     string
	Content  domain.CardContent
	Card     fsrs.Card
	SourceID sql.NullInt64
}

// InsertNewCard inserts content under card, a freshly initialized schedule
// (normally built with fsrs.NewCard(fsrs.WithCardID(knol.CardID(content)))).
// Callers are expected to have already checked FindByHash to avoid
// re-scheduling a card whose content hasn't changed.
func (s *Store) InsertNewCard(content domain.CardContent, hash string, card fsrs.Card, sourceID int64) error {
	_, err := s.conn.Exec(`
		INSERT INTO cards (card_id, hash, question, answer, context, state, step, stability, difficulty, due, last_review, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		card.CardID, hash, content.Question, content.Answer, content.Context,
		int(card.State), optIntToSQL(card.Step), optFloat64ToSQL(card.Stability), optFloat64ToSQL(card.Difficulty),
		card.Due, optTimeToSQL(card.LastReview), sourceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", hash, err)
	}
	return nil
}

// FindByHash retrieves a card by its content hash. It returns (nil, nil) if
// no such card exists.
func (s *Store) FindByHash(hash string) (*CardRecord, error) {
	row := s.conn.QueryRow(`
		SELECT card_id, hash, question, answer, context, state, step, stability, difficulty, due, last_review, source_id
		FROM cards WHERE hash = ?
	`, hash)
	return scanCardRecord(row)
}

// GetDueCards retrieves all cards due at or before t, soonest first.
func (s *Store) GetDueCards(t time.Time) ([]CardRecord, error) {
	rows, err := s.conn.Query(`
		SELECT card_id, hash, question, answer, context, state, step, stability, difficulty, due, last_review, source_id
		FROM cards
		WHERE due <= ?
		ORDER BY due ASC
	`, t)
	if err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	defer rows.Close()
	return scanCardRecords(rows)
}

// GetCardsBySource retrieves all cards associated with a source.
func (s *Store) GetCardsBySource(sourceID int64) ([]CardRecord, error) {
	rows, err := s.conn.Query(`
		SELECT card_id, hash, question, answer, context, state, step, stability, difficulty, due, last_review, source_id
		FROM cards WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for source %d: %w", sourceID, err)
	}
	defer rows.Close()
	return scanCardRecords(rows)
}

// SaveReview persists the outcome of a single review: the card's updated
// FSRS state and the append-only log entry, in one transaction.
func (s *Store) SaveReview(card fsrs.Card, log fsrs.ReviewLog) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE cards
		SET state = ?, step = ?, stability = ?, difficulty = ?, due = ?, last_review = ?
		WHERE card_id = ?
	`,
		int(card.State), optIntToSQL(card.Step), optFloat64ToSQL(card.Stability), optFloat64ToSQL(card.Difficulty),
		card.Due, optTimeToSQL(card.LastReview), card.CardID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.CardID, err)
	}

	_, err = tx.Exec(`
		INSERT INTO review_logs (card_id, rating, review_datetime, review_duration)
		VALUES (?, ?, ?, ?)
	`, card.CardID, int(log.Rating), log.ReviewDatetime, optInt64ToSQL(log.ReviewDuration))
	if err != nil {
		return fmt.Errorf("failed to insert review log for card %d: %w", card.CardID, err)
	}

	return tx.Commit()
}

// DeleteByHash removes a card and deletes it from the deck permanently.
func (s *Store) DeleteByHash(hash string) error {
	_, err := s.conn.Exec(`DELETE FROM cards WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", hash, err)
	}
	return nil
}

// Source represents a card source, either a local path or a Git URL.
type Source struct {
	ID          int64
	Path        string
	Type        string // "local" or "git"
	LastScanned sql.NullTime
}

// InsertSource inserts a new source and returns its ID.
func (s *Store) InsertSource(path, sourceType string) (int64, error) {
	res, err := s.conn.Exec(`
		INSERT INTO sources (path, type, last_scanned) VALUES (?, ?, ?)
	`, path, sourceType, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	return res.LastInsertId()
}

// FindSourceByPath retrieves a source by its path. It returns (nil, nil) if
// no such source exists.
func (s *Store) FindSourceByPath(path string) (*Source, error) {
	var src Source
	row := s.conn.QueryRow(`SELECT id, path, type, last_scanned FROM sources WHERE path = ?`, path)
	err := row.Scan(&src.ID, &src.Path, &src.Type, &src.LastScanned)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &src, nil
}

// GetAllSources retrieves every configured source.
func (s *Store) GetAllSources() ([]Source, error) {
	rows, err := s.conn.Query(`SELECT id, path, type, last_scanned FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Path, &src.Type, &src.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// UpdateSourceLastScanned stamps a source with the time of its latest scan.
func (s *Store) UpdateSourceLastScanned(sourceID int64, t time.Time) error {
	_, err := s.conn.Exec(`UPDATE sources SET last_scanned = ? WHERE id = ?`, t, sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source %d: %w", sourceID, err)
	}
	return nil
}

// DeleteSource deletes a source along with its cards and their review logs.
func (s *Store) DeleteSource(id int64) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM review_logs WHERE card_id IN (SELECT card_id FROM cards WHERE source_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete review logs for source %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM cards WHERE source_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete cards for source %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCardRecord(row scanner) (*CardRecord, error) {
	var (
		rec        CardRecord
		stateInt   int
		step       sql.NullInt64
		stability  sql.NullFloat64
		difficulty sql.NullFloat64
		lastReview sql.NullTime
	)
	err := row.Scan(
		&rec.Card.CardID, &rec.Hash, &rec.Content.Question, &rec.Content.Answer, &rec.Content.Context,
		&stateInt, &step, &stability, &difficulty, &rec.Card.Due, &lastReview, &rec.SourceID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan card row: %w", err)
	}
	rec.Card.State = fsrs.State(stateInt)
	if step.Valid {
		rec.Card.Step = fsrs.Int(int(step.Int64))
	}
	if stability.Valid {
		rec.Card.Stability = fsrs.Float64(stability.Float64)
	}
	if difficulty.Valid {
		rec.Card.Difficulty = fsrs.Float64(difficulty.Float64)
	}
	if lastReview.Valid {
		rec.Card.LastReview = fsrs.Time(lastReview.Time)
	}
	return &rec, nil
}

func scanCardRecords(rows *sql.Rows) ([]CardRecord, error) {
	var records []CardRecord
	for rows.Next() {
		rec, err := scanCardRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func optIntToSQL(v fsrs.OptInt) sql.NullInt64 {
	if !v.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v.Value), Valid: true}
}

func optInt64ToSQL(v fsrs.OptInt64) sql.NullInt64 {
	if !v.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v.Value, Valid: true}
}

func optFloat64ToSQL(v fsrs.OptFloat64) sql.NullFloat64 {
	if !v.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v.Value, Valid: true}
}

func optTimeToSQL(v fsrs.OptTime) sql.NullTime {
	if !v.Valid {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.Value, Valid: true}
}
