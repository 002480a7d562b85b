package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/awalczyk/billfetch"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ billfetch.Catalog = (*CatalogService)(nil)

// CatalogService implements billfetch.Catalog using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// hashBytes computes xxHash of data and returns a hex string.
func hashBytes(data []byte) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64(data))
	return hex.EncodeToString(b[:])
}

// CreateRecord stores a catalog record for the given file bytes, assigning
// ID, content hash, size, and fetch timestamp. Re-downloading the same
// format of the same bill replaces the previous record.
func (s *CatalogService) CreateRecord(ctx context.Context, rec *billfetch.Record, data []byte) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.FetchedAt = time.Now().UTC()
	rec.ContentHash = hashBytes(data)
	rec.Size = int64(len(data))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, bill_id, format, file_path, source_url, title, content_hash, size, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (bill_id, format) DO UPDATE SET
			file_path = excluded.file_path,
			source_url = excluded.source_url,
			title = excluded.title,
			content_hash = excluded.content_hash,
			size = excluded.size,
			fetched_at = excluded.fetched_at
	`, rec.ID, rec.BillID, string(rec.Format), rec.FilePath, rec.SourceURL, rec.Title,
		rec.ContentHash, rec.Size, rec.FetchedAt.Format(time.RFC3339))

	return err
}

// FindRecordsByBill retrieves all catalog records for a bill identifier,
// ordered by format.
func (s *CatalogService) FindRecordsByBill(ctx context.Context, billID string) ([]*billfetch.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bill_id, format, file_path, source_url, title, content_hash, size, fetched_at
		FROM records
		WHERE bill_id = ?
		ORDER BY format
	`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*billfetch.Record
	for rows.Next() {
		var rec billfetch.Record
		var format, fetchedAt string
		if err := rows.Scan(&rec.ID, &rec.BillID, &format, &rec.FilePath, &rec.SourceURL,
			&rec.Title, &rec.ContentHash, &rec.Size, &fetchedAt); err != nil {
			return nil, err
		}
		rec.Format = billfetch.Format(format)
		rec.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
