// Package mbtiles stores rendered noise tiles in an MBTiles (SQLite)
// database.
package mbtiles

import (
	"fmt"
	"strconv"
)

// Metadata contains MBTiles metadata fields. Bounds and Center are in
// noise-domain units rather than degrees; the generator settings are kept
// alongside so a tileset can be regenerated.
type Metadata struct {
	Name        string // Human-readable tileset identifier
	Format      string // Tile data type (png)
	Description string
	Type        string // "baselayer" or "overlay"
	Version     string
	Bounds      [4]float64 // x0, y0, x1, y1
	Center      [3]float64 // x, y, zoom
	MinZoom     int
	MaxZoom     int

	Preset    string
	Seed      uint32
	WorldSize float64
	Mapping   string
}

// ToMap converts Metadata to a map for database insertion. Zoom levels
// are always written, since zoom 0 is a valid minimum.
func (m Metadata) ToMap() map[string]string {
	result := map[string]string{
		"minzoom": strconv.Itoa(m.MinZoom),
		"maxzoom": strconv.Itoa(m.MaxZoom),
	}

	set := func(k, v string) {
		if v != "" {
			result[k] = v
		}
	}
	set("name", m.Name)
	set("format", m.Format)
	set("description", m.Description)
	set("type", m.Type)
	set("version", m.Version)
	set("preset", m.Preset)
	set("mapping", m.Mapping)

	if m.Bounds != [4]float64{} {
		result["bounds"] = fmt.Sprintf("%g,%g,%g,%g",
			m.Bounds[0], m.Bounds[1], m.Bounds[2], m.Bounds[3])
	}
	if m.Center != [3]float64{} {
		result["center"] = fmt.Sprintf("%g,%g,%d",
			m.Center[0], m.Center[1], int(m.Center[2]))
	}
	if m.Preset != "" {
		result["seed"] = strconv.FormatUint(uint64(m.Seed), 10)
	}
	if m.WorldSize != 0 {
		result["world_size"] = strconv.FormatFloat(m.WorldSize, 'g', -1, 64)
	}

	return result
}
