package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StatBlock holds the five derived character stats. Used both for class base
// values and per-level growth coefficients (growth is fractional).
type StatBlock struct {
	Health       float64 `yaml:"health"`
	Mana         float64 `yaml:"mana"`
	Strength     float64 `yaml:"strength"`
	Dexterity    float64 `yaml:"dexterity"`
	Intelligence float64 `yaml:"intelligence"`
}

// Milestone is a class-progression threshold. Bonuses are flat and cumulative
// across every milestone whose level has been reached.
type Milestone struct {
	Level        int       `yaml:"level"`
	Bonus        StatBlock `yaml:"bonus"`
	Skills       []string  `yaml:"skills"`
	RefillHealth bool      `yaml:"refill_health"`
	RefillMana   bool      `yaml:"refill_mana"`
}

// StarterItem is an item granted on character creation.
type StarterItem struct {
	ItemID   string `yaml:"item_id"`
	Quantity int    `yaml:"quantity"`
}

// ClassInfo holds one class template.
type ClassInfo struct {
	ID             string
	Name           string
	Base           StatBlock
	Growth         StatBlock
	AllowedWeapons []string // weapon type strings this class may equip
	Milestones     []Milestone
	StarterWeapon  string
	StarterItems   []StarterItem
}

// CanUseWeaponType reports whether the class may equip the given weapon type.
func (c *ClassInfo) CanUseWeaponType(weaponType string) bool {
	for _, w := range c.AllowedWeapons {
		if w == weaponType {
			return true
		}
	}
	return false
}

// ClassTable holds all class templates indexed by ID.
type ClassTable struct {
	classes map[string]*ClassInfo
}

// Get returns a class by ID, or nil if not found.
func (t *ClassTable) Get(classID string) *ClassInfo {
	return t.classes[classID]
}

// Count returns total loaded classes.
func (t *ClassTable) Count() int {
	return len(t.classes)
}

type classEntry struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Base           StatBlock     `yaml:"base"`
	Growth         StatBlock     `yaml:"growth"`
	AllowedWeapons []string      `yaml:"allowed_weapons"`
	Milestones     []Milestone   `yaml:"milestones"`
	StarterWeapon  string        `yaml:"starter_weapon"`
	StarterItems   []StarterItem `yaml:"starter_items"`
}

type classListFile struct {
	Classes []classEntry `yaml:"classes"`
}

// LoadClassTable loads class templates from a YAML file. Milestones are
// normalized to ascending level order so level-up scans are a single pass.
func LoadClassTable(path string) (*ClassTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}
	var f classListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse classes: %w", err)
	}
	classes := make([]*ClassInfo, 0, len(f.Classes))
	for i := range f.Classes {
		e := &f.Classes[i]
		classes = append(classes, &ClassInfo{
			ID:             e.ID,
			Name:           e.Name,
			Base:           e.Base,
			Growth:         e.Growth,
			AllowedWeapons: e.AllowedWeapons,
			Milestones:     e.Milestones,
			StarterWeapon:  e.StarterWeapon,
			StarterItems:   e.StarterItems,
		})
	}
	return NewClassTable(classes...), nil
}
