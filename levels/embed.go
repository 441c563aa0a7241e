package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/platformphys/common"
)

//go:embed *.json
var LevelsFS embed.FS

// Tile codes.
const (
	TileEmpty     = 0
	TileSolid     = 1
	TileHazard    = 2
	TileSemiSolid = 3
)

type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  int         `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity places a prefab in the level. Type is the prefab file name, or
// "player_spawn" for the player start.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

const PlayerSpawn = "player_spawn"

// LoadLevelFromFS reads an embedded level. The .json extension is optional.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, cleanLevelName(name))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Load reads levels/<name> from disk when present, falling back to the
// embedded copy.
func Load(name string) (*Level, error) {
	clean := cleanLevelName(name)
	if data, err := os.ReadFile(filepath.Join("levels", clean)); err == nil {
		return Parse(data)
	}
	return LoadLevelFromFS(clean)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Width < 0 || lvl.Height < 0 {
		return nil, fmt.Errorf("unmarshal level: negative size %dx%d", lvl.Width, lvl.Height)
	}
	return &lvl, nil
}

func cleanLevelName(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if filepath.Ext(s) == "" {
		s += ".json"
	}
	return s
}

// Tile returns the tile edge length in pixels.
func (l *Level) Tile() float64 {
	if l == nil || l.TileSize <= 0 {
		return common.TileSize
	}
	return float64(l.TileSize)
}

// Bounds returns the level size in pixels.
func (l *Level) Bounds() common.Vector2 {
	if l == nil {
		return common.Zero
	}
	return common.Vec(float64(l.Width)*l.Tile(), float64(l.Height)*l.Tile())
}

// Spawn returns the player start, if the level has one.
func (l *Level) Spawn() (common.Vector2, bool) {
	if l == nil {
		return common.Zero, false
	}
	for _, e := range l.Entities {
		if e.Type == PlayerSpawn {
			return common.Vec(float64(e.X), float64(e.Y)), true
		}
	}
	return common.Zero, false
}

// PhysicsLayers returns the layers flagged for collision that match the
// level size. A level without layer metadata treats every layer as physics.
func (l *Level) PhysicsLayers() [][]int {
	if l == nil {
		return nil
	}
	var out [][]int
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			continue
		}
		if len(l.LayerMeta) > 0 && (i >= len(l.LayerMeta) || !l.LayerMeta[i].Physics) {
			continue
		}
		out = append(out, layer)
	}
	return out
}
