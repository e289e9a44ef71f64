package mbtiles

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/noisegraph/internal/tile"
)

// ErrTileNotFound is returned by ReadTile for a tile that was never written.
var ErrTileNotFound = errors.New("tile not found")

// Reader reads tiles from an MBTiles database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens an MBTiles database for reading.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='tiles'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain tiles table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

// ReadTile returns the stored data of a tile, decompressed if it was
// written with WithGzip.
func (r *Reader) ReadTile(c tile.Coords) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=?",
		c.Z, c.X, tmsRow(c),
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", c, ErrTileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tile: %w", err)
	}

	if !isGzip(data) {
		return data, nil
	}
	uncompressed, err := gzipDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress tile: %w", err)
	}
	return uncompressed, nil
}

// Count returns the number of tiles at zoom z, or at every zoom when z
// is negative.
func (r *Reader) Count(z int) (int, error) {
	var (
		n   int
		err error
	)
	if z < 0 {
		err = r.db.QueryRow("SELECT COUNT(*) FROM tiles").Scan(&n)
	} else {
		err = r.db.QueryRow("SELECT COUNT(*) FROM tiles WHERE zoom_level=?", z).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count tiles: %w", err)
	}
	return n, nil
}

// Metadata reads metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metaMap := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}

	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	meta := Metadata{
		Name:        metaMap["name"],
		Format:      metaMap["format"],
		Description: metaMap["description"],
		Type:        metaMap["type"],
		Version:     metaMap["version"],
		Preset:      metaMap["preset"],
		Mapping:     metaMap["mapping"],
	}

	if i, err := strconv.Atoi(metaMap["minzoom"]); err == nil {
		meta.MinZoom = i
	}
	if i, err := strconv.Atoi(metaMap["maxzoom"]); err == nil {
		meta.MaxZoom = i
	}
	if s, err := strconv.ParseUint(metaMap["seed"], 10, 32); err == nil {
		meta.Seed = uint32(s)
	}
	if f, err := strconv.ParseFloat(metaMap["world_size"], 64); err == nil {
		meta.WorldSize = f
	}
	parseFloats(metaMap["bounds"], meta.Bounds[:])
	parseFloats(metaMap["center"], meta.Center[:])

	return meta, nil
}

// parseFloats fills dst from a comma-separated list of exactly len(dst)
// numbers. Anything else leaves dst untouched.
func parseFloats(s string, dst []float64) {
	parts := strings.Split(s, ",")
	if len(parts) != len(dst) {
		return
	}
	for i, part := range parts {
		if f, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
			dst[i] = f
		}
	}
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	return io.ReadAll(gr)
}
