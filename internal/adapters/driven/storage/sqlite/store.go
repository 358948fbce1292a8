package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/logger"
)

// IndexDirName is the directory under the data directory holding the index.
const IndexDirName = "vector-index"

// IndexFileName is the database file inside IndexDirName.
const IndexFileName = "index.db"

var log = logger.With("vectorstore")

// VectorStore is a SQLite-backed driven.VectorStore.
type VectorStore struct {
	db   *sql.DB
	path string
}

var _ driven.VectorStore = (*VectorStore)(nil)

// Open opens the vector index under dataDir, creating it if needed.
// If dataDir is empty, defaults to ~/.docvault/data.
// It satisfies driven.StoreOpener.
func Open(dataDir string) (driven.VectorStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docvault", "data")
	}
	return NewVectorStore(filepath.Join(dataDir, IndexDirName))
}

// NewVectorStore opens or creates the index database in indexDir.
// Opening an existing index keeps every record.
func NewVectorStore(indexDir string) (*VectorStore, error) {
	if indexDir == "" {
		return nil, fmt.Errorf("%w: index directory is required", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(indexDir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, IndexFileName)
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	applied, err := migrate(db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if applied > 0 {
		log.Info("applied %d schema migration(s) to %s", applied, dbPath)
	}

	log.Debug("opened vector index at %s", dbPath)
	return &VectorStore{db: db, path: dbPath}, nil
}

// dsn enables WAL so readers do not block the writer, and waits up to five
// seconds on a locked database instead of failing.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(ON)")
	return path + "?" + q.Encode()
}

// Close closes the database connection.
func (s *VectorStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *VectorStore) Path() string {
	return s.path
}

// Insert stores a vector and its chunk metadata, replacing any record with the same itemID.
func (s *VectorStore) Insert(ctx context.Context, itemID string, vector []float32, meta domain.Chunk) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", domain.ErrInvalidInput)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO vector_items
			(item_id, document_id, page_number, chunk_index, dimensions, vector, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, itemID, meta.DocumentID, meta.PageNumber, meta.ChunkIndex, len(vector),
		float32SliceToBytes(vector), string(metaJSON), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("%w: inserting item %s: %v", domain.ErrVectorStoreIO, itemID, err)
	}

	return nil
}

// Delete removes a record. Missing records are ignored.
func (s *VectorStore) Delete(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM vector_items WHERE item_id = ?", itemID)
	if err != nil {
		return fmt.Errorf("%w: deleting item %s: %v", domain.ErrVectorStoreIO, itemID, err)
	}
	return nil
}

// ListAll returns every record, grouped by document in chunk order.
func (s *VectorStore) ListAll(ctx context.Context) ([]driven.VectorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, vector, metadata FROM vector_items
		ORDER BY document_id, chunk_index, item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing items: %v", domain.ErrVectorStoreIO, err)
	}
	defer rows.Close()

	var records []driven.VectorRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing items: %v", domain.ErrVectorStoreIO, err)
	}

	return records, nil
}

// Query scores every record against vector and returns the k best.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorMatch, error) {
	if k <= 0 {
		return []driven.VectorMatch{}, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT item_id, vector, metadata FROM vector_items")
	if err != nil {
		return nil, fmt.Errorf("%w: querying items: %v", domain.ErrVectorStoreIO, err)
	}
	defer rows.Close()

	var matches []driven.VectorMatch
	mismatched := 0
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if len(record.Vector) != len(vector) {
			mismatched++
		}

		matches = append(matches, driven.VectorMatch{
			ItemID:   record.ItemID,
			Metadata: record.Metadata,
			Score:    similarity.Cosine(vector, record.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: querying items: %v", domain.ErrVectorStoreIO, err)
	}

	if mismatched > 0 {
		log.Warn("%d indexed vectors differ from query dimension %d; scored over shared prefix",
			mismatched, len(vector))
	}

	return similarity.TopK(matches, k), nil
}

// Count returns the number of records in the index.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vector_items").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting items: %v", domain.ErrVectorStoreIO, err)
	}
	return n, nil
}

func scanRecord(rows *sql.Rows) (*driven.VectorRecord, error) {
	var (
		itemID   string
		blob     []byte
		metaJSON string
	)
	if err := rows.Scan(&itemID, &blob, &metaJSON); err != nil {
		return nil, fmt.Errorf("%w: scanning item: %v", domain.ErrVectorStoreIO, err)
	}

	var meta domain.Chunk
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		return nil, fmt.Errorf("%w: decoding metadata for %s: %v", domain.ErrVectorStoreIO, itemID, err)
	}

	return &driven.VectorRecord{
		ItemID:   itemID,
		Vector:   bytesToFloat32Slice(blob),
		Metadata: meta,
	}, nil
}

// float32SliceToBytes encodes floats as little-endian IEEE 754.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice decodes little-endian IEEE 754 floats.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
