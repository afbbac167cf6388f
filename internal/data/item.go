package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemType distinguishes item categories for stacking, sorting, and equip logic.
type ItemType string

const (
	TypeWeapon     ItemType = "weapon"
	TypeArmor      ItemType = "armor"
	TypeAccessory  ItemType = "accessory"
	TypeConsumable ItemType = "consumable"
	TypeMaterial   ItemType = "material"
	TypeQuest      ItemType = "quest"
	TypeMisc       ItemType = "misc"
)

// maxStackByType caps stack sizes for stackable item categories.
// Types absent from the map never stack past 1.
var maxStackByType = map[ItemType]int{
	TypeConsumable: 99,
	TypeMaterial:   999,
	TypeMisc:       99,
}

// typeWeight orders item categories for inventory sorting (lower sorts first).
var typeWeight = map[ItemType]int{
	TypeWeapon:     0,
	TypeArmor:      1,
	TypeAccessory:  2,
	TypeConsumable: 3,
	TypeMaterial:   4,
	TypeQuest:      5,
	TypeMisc:       6,
}

// TypeWeight returns the sort weight for an item type. Unknown types sort last.
func TypeWeight(t ItemType) int {
	if w, ok := typeWeight[t]; ok {
		return w
	}
	return len(typeWeight)
}

// ItemInfo holds one item template. Flat struct: weapon-only fields are
// zero-valued for other categories.
type ItemInfo struct {
	ID        string
	Name      string
	Type      ItemType
	Rarity    string
	Stackable bool
	MaxStack  int // per-item override; 0 = use type default
	Value     int64
	Weight    int
	Effect    string // Lua effect function name for consumables ("" = none)

	// Weapon fields
	WeaponType string // sword/dagger/bow/staff/…
	Damage     int
	MinLevel   int
	MinStr     int
	MinDex     int
	MinInt     int
}

// MaxStackSize returns the stack cap for this item: 1 for non-stackables,
// the per-item override when set, else the type default.
func (it *ItemInfo) MaxStackSize() int {
	if !it.Stackable {
		return 1
	}
	if it.MaxStack > 0 {
		return it.MaxStack
	}
	if m, ok := maxStackByType[it.Type]; ok {
		return m
	}
	return 1
}

// ItemTable holds all item templates indexed by ID.
// Merges general item and weapon data into one flat lookup.
type ItemTable struct {
	items map[string]*ItemInfo
}

// Get returns an item by ID, or nil if not found.
func (t *ItemTable) Get(itemID string) *ItemInfo {
	return t.items[itemID]
}

// Count returns total loaded items.
func (t *ItemTable) Count() int {
	return len(t.items)
}

// LoadItemTable loads the item and weapon YAML files into a single table.
func LoadItemTable(itemPath, weaponPath string) (*ItemTable, error) {
	t := NewItemTable()

	if err := loadItems(t, itemPath); err != nil {
		return nil, err
	}
	if err := loadWeapons(t, weaponPath); err != nil {
		return nil, err
	}
	return t, nil
}

// --- general item loading ---

type itemEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Rarity    string `yaml:"rarity"`
	Stackable bool   `yaml:"stackable"`
	MaxStack  int    `yaml:"max_stack"`
	Value     int64  `yaml:"value"`
	Weight    int    `yaml:"weight"`
	Effect    string `yaml:"effect"`
}

type itemListFile struct {
	Items []itemEntry `yaml:"items"`
}

func loadItems(t *ItemTable, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read items: %w", err)
	}
	var f itemListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse items: %w", err)
	}
	for i := range f.Items {
		e := &f.Items[i]
		t.items[e.ID] = &ItemInfo{
			ID:        e.ID,
			Name:      e.Name,
			Type:      ItemType(e.Type),
			Rarity:    e.Rarity,
			Stackable: e.Stackable,
			MaxStack:  e.MaxStack,
			Value:     e.Value,
			Weight:    e.Weight,
			Effect:    e.Effect,
		}
	}
	return nil
}

// --- weapon loading ---

type weaponEntry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	WeaponType string `yaml:"weapon_type"`
	Rarity     string `yaml:"rarity"`
	Value      int64  `yaml:"value"`
	Weight     int    `yaml:"weight"`
	Damage     int    `yaml:"damage"`
	MinLevel   int    `yaml:"min_level"`
	MinStr     int    `yaml:"min_str"`
	MinDex     int    `yaml:"min_dex"`
	MinInt     int    `yaml:"min_int"`
}

type weaponListFile struct {
	Weapons []weaponEntry `yaml:"weapons"`
}

func loadWeapons(t *ItemTable, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read weapons: %w", err)
	}
	var f weaponListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse weapons: %w", err)
	}
	for i := range f.Weapons {
		w := &f.Weapons[i]
		t.items[w.ID] = &ItemInfo{
			ID:         w.ID,
			Name:       w.Name,
			Type:       TypeWeapon,
			Rarity:     w.Rarity,
			Stackable:  false,
			Value:      w.Value,
			Weight:     w.Weight,
			WeaponType: w.WeaponType,
			Damage:     w.Damage,
			MinLevel:   w.MinLevel,
			MinStr:     w.MinStr,
			MinDex:     w.MinDex,
			MinInt:     w.MinInt,
		}
	}
	return nil
}
