// Package store provides SQLite-backed persistence for the worksheet: the
// current submission, a constants override and evidence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const currentSlot = "current"

// Store is an open worksheet database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// SaveSubmission replaces the current submission.
func (s *Store) SaveSubmission(ctx context.Context, sub *model.Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO submission (slot, submission_id, payload, updated_at)
		VALUES (?, ?, ?, ?)`, currentSlot, sub.ID, string(payload), timestamp(sub.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving submission: %w", err)
	}
	return nil
}

// LoadSubmission returns the current submission, or ErrNotFound.
func (s *Store) LoadSubmission(ctx context.Context) (*model.Submission, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM submission WHERE slot = ?", currentSlot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading submission: %w", err)
	}

	var sub model.Submission
	if err := json.Unmarshal([]byte(payload), &sub); err != nil {
		return nil, fmt.Errorf("decoding submission: %w", err)
	}
	return &sub, nil
}

// SaveConstants stores a constants override.
func (s *Store) SaveConstants(ctx context.Context, c *constants.Constants) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding constants: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO constants_override (slot, version, payload, updated_at)
		VALUES (?, ?, ?, ?)`, currentSlot, c.ConstantsVersion, string(payload), timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("saving constants: %w", err)
	}
	return nil
}

// LoadConstants returns the stored constants override, or ErrNotFound.
// The override is validated before it is returned.
func (s *Store) LoadConstants(ctx context.Context) (*constants.Constants, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM constants_override WHERE slot = ?", currentSlot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading constants: %w", err)
	}
	c, err := constants.Parse([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("decoding stored constants: %w", err)
	}
	return c, nil
}

// ClearConstants drops the constants override.
func (s *Store) ClearConstants(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM constants_override WHERE slot = ?", currentSlot)
	return err
}

// SaveEvidence inserts or replaces an evidence item and adds files to it.
func (s *Store) SaveEvidence(ctx context.Context, item model.EvidenceItem, files []model.EvidenceFile) error {
	fileIDs := item.FileIDs
	if fileIDs == nil {
		fileIDs = []string{}
	}
	ids, err := json.Marshal(fileIDs)
	if err != nil {
		return fmt.Errorf("encoding file ids: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO evidence_items (evidence_id, evidence_type, url, file_ids, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(evidence_id) DO UPDATE SET url = excluded.url, file_ids = excluded.file_ids`,
		item.ID, string(item.Type), item.URL, string(ids), timestamp(item.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving evidence %s: %w", item.ID, err)
	}

	for _, f := range files {
		_, err = tx.ExecContext(ctx, `INSERT INTO evidence_files
			(file_id, evidence_id, filename, mime, size_bytes, sha256, data, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, item.ID, f.Filename, f.MIME, f.Size, f.SHA256, f.Data, timestamp(f.CreatedAt))
		if err != nil {
			return fmt.Errorf("saving evidence file %s: %w", f.Filename, err)
		}
	}

	return tx.Commit()
}

// ListEvidence returns every evidence item ordered by creation time.
func (s *Store) ListEvidence(ctx context.Context) ([]model.EvidenceItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT evidence_id, evidence_type, url, file_ids, created_at
		FROM evidence_items ORDER BY created_at, evidence_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.EvidenceItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// EvidenceByType returns the item of an evidence type, or ErrNotFound.
func (s *Store) EvidenceByType(ctx context.Context, t model.EvidenceType) (model.EvidenceItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT evidence_id, evidence_type, url, file_ids, created_at
		FROM evidence_items WHERE evidence_type = ?`, string(t))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EvidenceItem{}, ErrNotFound
	}
	return item, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.EvidenceItem, error) {
	var item model.EvidenceItem
	var evidenceType, ids, created string
	if err := row.Scan(&item.ID, &evidenceType, &item.URL, &ids, &created); err != nil {
		return model.EvidenceItem{}, err
	}
	item.Type = model.EvidenceType(evidenceType)
	if err := json.Unmarshal([]byte(ids), &item.FileIDs); err != nil {
		return model.EvidenceItem{}, fmt.Errorf("decoding file ids of %s: %w", item.ID, err)
	}
	item.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return item, nil
}

// EvidenceFiles returns the files attached to an evidence item, data included.
func (s *Store) EvidenceFiles(ctx context.Context, evidenceID string) ([]model.EvidenceFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_id, evidence_id, filename, mime, size_bytes, sha256, data, created_at
		FROM evidence_files WHERE evidence_id = ? ORDER BY created_at, file_id`, evidenceID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var files []model.EvidenceFile
	for rows.Next() {
		var f model.EvidenceFile
		var created string
		if err := rows.Scan(&f.ID, &f.EvidenceID, &f.Filename, &f.MIME, &f.Size, &f.SHA256, &f.Data, &created); err != nil {
			return nil, err
		}
		f.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteEvidence removes an evidence item and its files. It returns the
// number of files removed, or ErrNotFound.
func (s *Store) DeleteEvidence(ctx context.Context, evidenceID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM evidence_files WHERE evidence_id = ?", evidenceID)
	if err != nil {
		return 0, fmt.Errorf("deleting evidence files: %w", err)
	}
	removedFiles, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM evidence_items WHERE evidence_id = ?", evidenceID)
	if err != nil {
		return 0, fmt.Errorf("deleting evidence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	return int(removedFiles), tx.Commit()
}
