package mbtiles

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"sync"

	"github.com/MeKo-Tech/noisegraph/internal/tile"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DefaultBatchSize is the number of tiles to buffer before flushing to the database.
	DefaultBatchSize = 100
)

// TileEntry represents a single tile to be written.
type TileEntry struct {
	Data   []byte
	Coords tile.Coords
}

// Option configures a Writer.
type Option func(*Writer)

// WithGzip gzip-compresses tile data before storing it. Readers detect
// compressed blobs on their own.
func WithGzip() Option {
	return func(w *Writer) { w.gzip = true }
}

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// Writer writes tiles to an MBTiles database. It is safe for concurrent use.
type Writer struct {
	db        *sql.DB
	path      string
	batch     []TileEntry
	metadata  Metadata
	batchSize int
	gzip      bool
	written   int
	mu        sync.Mutex
}

// New creates a new MBTiles writer.
// The database is created if it doesn't exist, and the schema is initialized.
func New(path string, metadata Metadata, opts ...Option) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 50000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := insertMetadata(db, metadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert metadata: %w", err)
	}

	w := &Writer{
		db:        db,
		path:      path,
		batchSize: DefaultBatchSize,
		metadata:  metadata,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.batch = make([]TileEntry, 0, w.batchSize)
	return w, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS metadata (
			name TEXT NOT NULL,
			value TEXT
		);

		CREATE TABLE IF NOT EXISTS tiles (
			zoom_level INTEGER NOT NULL,
			tile_column INTEGER NOT NULL,
			tile_row INTEGER NOT NULL,
			tile_data BLOB NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS tile_index ON tiles (zoom_level, tile_column, tile_row);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func insertMetadata(db *sql.DB, meta Metadata) error {
	if _, err := db.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}

	stmt, err := db.Prepare("INSERT INTO metadata (name, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer stmt.Close()

	for key, value := range meta.ToMap() {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", key, err)
		}
	}

	return nil
}

// tmsRow flips an XYZ row into the TMS row MBTiles stores.
func tmsRow(c tile.Coords) int64 {
	return int64(1)<<c.Z - 1 - int64(c.Y)
}

// WriteTile adds a tile to the batch. When the batch is full, it is automatically flushed.
func (w *Writer) WriteTile(c tile.Coords, data []byte) error {
	if !c.Valid() {
		return fmt.Errorf("tile %s is outside its zoom level", c)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.batch = append(w.batch, TileEntry{Coords: c, Data: data})

	if len(w.batch) >= w.batchSize {
		return w.flushLocked()
	}

	return nil
}

// Flush writes any buffered tiles to the database.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

// Written returns the number of tiles committed so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// flushLocked writes buffered tiles to the database. Must be called with lock held.
func (w *Writer) flushLocked() error {
	if len(w.batch) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range w.batch {
		data := entry.Data
		if w.gzip {
			data, err = gzipCompress(data)
			if err != nil {
				return fmt.Errorf("failed to compress tile %s: %w", entry.Coords, err)
			}
		}

		c := entry.Coords
		if _, err := stmt.Exec(c.Z, c.X, tmsRow(c), data); err != nil {
			return fmt.Errorf("failed to insert tile %s: %w", c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.written += len(w.batch)
	w.batch = w.batch[:0]
	return nil
}

// Close flushes any remaining tiles and closes the database.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)

	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, err
	}

	if err := gw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
