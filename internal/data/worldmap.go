package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// AreaType drives travel speed modifiers and arrival behavior.
type AreaType string

const (
	AreaTown    AreaType = "town"
	AreaField   AreaType = "field"
	AreaDungeon AreaType = "dungeon"
)

// Position is an area's coordinate on the floor map, used for travel distance.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Connection is a directed travel edge. RequiredExploration gates the edge on
// the player's recorded max exploration of the ORIGIN area.
type Connection struct {
	AreaID              string `yaml:"area_id"`
	RequiredExploration int    `yaml:"required_exploration"`
}

// AreaInfo holds one map area (node of the travel graph).
type AreaInfo struct {
	ID          string
	FloorID     string
	Name        string
	Type        AreaType
	Position    Position
	Connections []Connection
	GateBoss    string // boss that must be defeated before this area unlocks ("" = none)
}

// Connection returns the edge to the given area, or nil if not connected.
func (a *AreaInfo) Connection(targetID string) *Connection {
	for i := range a.Connections {
		if a.Connections[i].AreaID == targetID {
			return &a.Connections[i]
		}
	}
	return nil
}

// FloorInfo holds one floor (grouping of areas).
type FloorInfo struct {
	ID           string
	Name         string
	TownAreaID   string // every floor has exactly one town, the floor-change anchor
	RequiredBoss string // boss gating changeFloor to this floor ("" = open)
}

// WorldTable holds the static floor/area graph.
type WorldTable struct {
	floors     map[string]*FloorInfo
	areas      map[string]*AreaInfo
	floorOrder []string // file order; first entry is the starting floor
}

// Area returns an area by ID, or nil if not found.
func (t *WorldTable) Area(areaID string) *AreaInfo {
	return t.areas[areaID]
}

// Floor returns a floor by ID, or nil if not found.
func (t *WorldTable) Floor(floorID string) *FloorInfo {
	return t.floors[floorID]
}

// FirstFloor returns the starting floor (first in file order).
func (t *WorldTable) FirstFloor() *FloorInfo {
	if len(t.floorOrder) == 0 {
		return nil
	}
	return t.floors[t.floorOrder[0]]
}

// AreaCount returns the number of areas loaded.
func (t *WorldTable) AreaCount() int {
	return len(t.areas)
}

// FloorCount returns the number of floors loaded.
func (t *WorldTable) FloorCount() int {
	return len(t.floors)
}

// Distance returns the Euclidean distance between two areas' positions.
func Distance(from, to *AreaInfo) float64 {
	dx := to.Position.X - from.Position.X
	dy := to.Position.Y - from.Position.Y
	return math.Sqrt(dx*dx + dy*dy)
}

type areaEntry struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"`
	Position    Position     `yaml:"position"`
	Connections []Connection `yaml:"connections"`
	GateBoss    string       `yaml:"gate_boss"`
}

type floorEntry struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	TownAreaID   string      `yaml:"town_area_id"`
	RequiredBoss string      `yaml:"required_boss"`
	Areas        []areaEntry `yaml:"areas"`
}

type worldFile struct {
	Floors []floorEntry `yaml:"floors"`
}

// LoadWorldTable loads the floor/area graph from a YAML file and validates
// that every connection and town anchor references a known area.
func LoadWorldTable(path string) (*WorldTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world map: %w", err)
	}
	var f worldFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse world map: %w", err)
	}
	var (
		floors []*FloorInfo
		areas  []*AreaInfo
	)
	for i := range f.Floors {
		fl := &f.Floors[i]
		floors = append(floors, &FloorInfo{
			ID:           fl.ID,
			Name:         fl.Name,
			TownAreaID:   fl.TownAreaID,
			RequiredBoss: fl.RequiredBoss,
		})
		for j := range fl.Areas {
			a := &fl.Areas[j]
			areas = append(areas, &AreaInfo{
				ID:          a.ID,
				FloorID:     fl.ID,
				Name:        a.Name,
				Type:        AreaType(a.Type),
				Position:    a.Position,
				Connections: a.Connections,
				GateBoss:    a.GateBoss,
			})
		}
	}
	t := NewWorldTable(floors, areas)
	for _, fl := range t.floors {
		if t.areas[fl.TownAreaID] == nil {
			return nil, fmt.Errorf("floor %s: unknown town area %s", fl.ID, fl.TownAreaID)
		}
	}
	for _, a := range t.areas {
		for _, c := range a.Connections {
			if t.areas[c.AreaID] == nil {
				return nil, fmt.Errorf("area %s: connection to unknown area %s", a.ID, c.AreaID)
			}
		}
	}
	return t, nil
}
