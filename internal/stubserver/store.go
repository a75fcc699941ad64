package stubserver

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ohmg/internal/volume"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stub databases are disposable and are simply recreated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates a missing volume or document.
var ErrNotFound = errors.New("not found")

// Store persists stub volumes and documents in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the stub database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// VolumeRecord is one stored volume.
type VolumeRecord struct {
	Identifier string
	Title      string
	Status     string
	SheetTotal int
	Access     string
	Sponsor    string
	LoadedBy   string
	LoadDate   string
}

// DocumentRecord is one stored sheet.
type DocumentRecord struct {
	ID       int64
	VolumeID string
	PageNo   int
	Title    string
	Status   volume.DocStatus
	Category string
	Slug     string
	LockUser string
	Mask     string
	ImageW   int
	ImageH   int
}

// CreateVolume inserts a new volume in the "not started" state.
func (s *Store) CreateVolume(ctx context.Context, record VolumeRecord) error {
	access := record.Access
	if access == "" {
		access = volume.AccessAny
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO volumes (identifier, title, status, sheet_total, access, sponsor, loaded_by, load_date)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Identifier, record.Title, "not started", record.SheetTotal,
		access, record.Sponsor, record.LoadedBy, record.LoadDate,
	)
	if err != nil {
		return fmt.Errorf("insert volume: %w", err)
	}
	return nil
}

// GetVolume fetches one volume by identifier.
func (s *Store) GetVolume(ctx context.Context, identifier string) (*VolumeRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT identifier, title, status, sheet_total, access, sponsor, loaded_by, load_date
         FROM volumes WHERE identifier = ?`, identifier)
	var record VolumeRecord
	err := row.Scan(&record.Identifier, &record.Title, &record.Status, &record.SheetTotal,
		&record.Access, &record.Sponsor, &record.LoadedBy, &record.LoadDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("volume %q: %w", identifier, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select volume: %w", err)
	}
	return &record, nil
}

// SetVolumeStatus updates a volume's status, recording the loading user
// when the bulk load begins.
func (s *Store) SetVolumeStatus(ctx context.Context, identifier, status, loadedBy string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE volumes SET status = ?, loaded_by = CASE WHEN ? != '' THEN ? ELSE loaded_by END, load_date = CASE WHEN ? != '' THEN ? ELSE load_date END WHERE identifier = ?",
		status, loadedBy, loadedBy, loadedBy, time.Now().UTC().Format("2006-01-02"), identifier)
	if err != nil {
		return fmt.Errorf("update volume status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update volume status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("volume %q: %w", identifier, ErrNotFound)
	}
	return nil
}

// InsertDocument stores a newly loaded sheet.
func (s *Store) InsertDocument(ctx context.Context, record DocumentRecord) (int64, error) {
	status := record.Status
	if status == "" {
		status = volume.DocUnprepared
	}
	category := record.Category
	if category == "" {
		category = volume.MainCategory
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (volume_id, page_no, title, status, category, slug, lock_user, mask, image_w, image_h)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.VolumeID, record.PageNo, record.Title, string(status), category,
		record.Slug, record.LockUser, record.Mask, record.ImageW, record.ImageH,
	)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// ListDocuments returns a volume's sheets ordered by page number.
func (s *Store) ListDocuments(ctx context.Context, volumeID string) ([]DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, volume_id, page_no, title, status, category, slug, lock_user, mask, image_w, image_h
         FROM documents WHERE volume_id = ? ORDER BY page_no`, volumeID)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var record DocumentRecord
		var status string
		if err := rows.Scan(&record.ID, &record.VolumeID, &record.PageNo, &record.Title,
			&status, &record.Category, &record.Slug, &record.LockUser, &record.Mask,
			&record.ImageW, &record.ImageH); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		record.Status = volume.DocStatus(status)
		records = append(records, record)
	}
	return records, rows.Err()
}

// SetDocumentStatus transitions one sheet to a new workflow status. Sheets
// entering the layer statuses get a slug assigned if they never had one, so
// they can be addressed by the category lookup.
func (s *Store) SetDocumentStatus(ctx context.Context, id int64, status volume.DocStatus) error {
	var volumeID string
	var pageNo int
	err := s.db.QueryRowContext(ctx,
		"SELECT volume_id, page_no FROM documents WHERE id = ?", id).Scan(&volumeID, &pageNo)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("select document: %w", err)
	}

	slug := ""
	switch status {
	case volume.DocGeoreferenced, volume.DocTrimming, volume.DocTrimmed:
		slug = fmt.Sprintf("%s_p%d", volumeID, pageNo)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, slug = CASE WHEN slug = '' AND ? != '' THEN ? ELSE slug END WHERE id = ?",
		string(status), slug, slug, id)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

// ApplyCategories rewrites the category of each layer named in lookup.
func (s *Store) ApplyCategories(ctx context.Context, volumeID string, lookup map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin categories tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for slug, category := range lookup {
		if category == "" {
			category = volume.MainCategory
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET category = ? WHERE volume_id = ? AND slug = ?",
			category, volumeID, slug); err != nil {
			return fmt.Errorf("update category for %q: %w", slug, err)
		}
	}
	return tx.Commit()
}

// SetDocumentMask records a multimask assignment for one layer.
func (s *Store) SetDocumentMask(ctx context.Context, id int64, mask string) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE documents SET mask = ? WHERE id = ?", mask, id); err != nil {
		return fmt.Errorf("update document mask: %w", err)
	}
	return nil
}

// CountDocuments returns the number of loaded sheets for a volume.
func (s *Store) CountDocuments(ctx context.Context, volumeID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM documents WHERE volume_id = ?", volumeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
