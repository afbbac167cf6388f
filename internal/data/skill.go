package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SkillEffect is one effect a skill applies on use. Chance defaults to 100
// when omitted in YAML.
type SkillEffect struct {
	Type     string  `yaml:"type"`     // buff/haste/shield/…, keyed per type on the character
	Duration float64 `yaml:"duration"` // seconds
	Chance   int     `yaml:"chance"`   // percent roll; 0 in YAML means "always"
	Power    int     `yaml:"power"`
}

// SkillInfo holds one skill template.
type SkillInfo struct {
	ID             string
	Name           string
	ClassID        string
	MinLevel       int
	ManaCost       int
	Cooldown       float64  // seconds
	AllowedWeapons []string // weapon types the skill requires (empty = any)
	Effects        []SkillEffect
}

// RequiresWeapon reports whether the skill declares a weapon-type restriction.
func (s *SkillInfo) RequiresWeapon() bool {
	return len(s.AllowedWeapons) > 0
}

// AllowsWeaponType reports whether the given weapon type satisfies the
// skill's restriction. Skills without a restriction allow anything,
// including bare hands.
func (s *SkillInfo) AllowsWeaponType(weaponType string) bool {
	if len(s.AllowedWeapons) == 0 {
		return true
	}
	for _, w := range s.AllowedWeapons {
		if w == weaponType {
			return true
		}
	}
	return false
}

// SkillTable holds all skills indexed by ID, with a per-class index.
type SkillTable struct {
	skills  map[string]*SkillInfo
	byClass map[string][]*SkillInfo
}

// Get returns a skill by ID, or nil if not found.
func (t *SkillTable) Get(skillID string) *SkillInfo {
	return t.skills[skillID]
}

// ForClass returns all skills belonging to a class, ordered by MinLevel.
func (t *SkillTable) ForClass(classID string) []*SkillInfo {
	return t.byClass[classID]
}

// Count returns total loaded skills.
func (t *SkillTable) Count() int {
	return len(t.skills)
}

type skillEntry struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	ClassID        string        `yaml:"class_id"`
	MinLevel       int           `yaml:"min_level"`
	ManaCost       int           `yaml:"mana_cost"`
	Cooldown       float64       `yaml:"cooldown"`
	AllowedWeapons []string      `yaml:"allowed_weapons"`
	Effects        []SkillEffect `yaml:"effects"`
}

type skillListFile struct {
	Skills []skillEntry `yaml:"skills"`
}

// LoadSkillTable loads skill templates from a YAML file.
func LoadSkillTable(path string) (*SkillTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skills: %w", err)
	}
	var f skillListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	skills := make([]*SkillInfo, 0, len(f.Skills))
	for i := range f.Skills {
		e := &f.Skills[i]
		skills = append(skills, &SkillInfo{
			ID:             e.ID,
			Name:           e.Name,
			ClassID:        e.ClassID,
			MinLevel:       e.MinLevel,
			ManaCost:       e.ManaCost,
			Cooldown:       e.Cooldown,
			AllowedWeapons: e.AllowedWeapons,
			Effects:        e.Effects,
		})
	}
	return NewSkillTable(skills...), nil
}
