package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ShopEntry holds one item listing in a shop.
type ShopEntry struct {
	ItemID    string `yaml:"item_id"`
	BuyPrice  int64  `yaml:"buy_price"`  // price shop sells at (-1 = not selling)
	SellPrice int64  `yaml:"sell_price"` // price shop pays the player (-1 = not buying)
}

// Shop holds the listings for one shopkeeper.
type Shop struct {
	ID      string
	Name    string
	AreaID  string // area where this shop is found
	entries map[string]*ShopEntry
}

// Entry returns the listing for an item, or nil if the shop doesn't carry it.
func (s *Shop) Entry(itemID string) *ShopEntry {
	return s.entries[itemID]
}

// BuyPrice returns the unit price the shop sells an item at, or -1 if not sold.
func (s *Shop) BuyPrice(itemID string) int64 {
	if e := s.entries[itemID]; e != nil && e.BuyPrice >= 0 {
		return e.BuyPrice
	}
	return -1
}

// SellPrice returns the unit price the shop pays for an item, or -1 if not bought.
func (s *Shop) SellPrice(itemID string) int64 {
	if e := s.entries[itemID]; e != nil && e.SellPrice >= 0 {
		return e.SellPrice
	}
	return -1
}

// ShopTable holds all shops indexed by ID.
type ShopTable struct {
	shops map[string]*Shop
}

// Get returns a shop by ID, or nil if not found.
func (t *ShopTable) Get(shopID string) *Shop {
	return t.shops[shopID]
}

// Count returns the number of shops loaded.
func (t *ShopTable) Count() int {
	return len(t.shops)
}

type shopYAMLEntry struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	AreaID string      `yaml:"area_id"`
	Items  []ShopEntry `yaml:"items"`
}

type shopListFile struct {
	Shops []shopYAMLEntry `yaml:"shops"`
}

// LoadShopTable loads shop data from a YAML file.
func LoadShopTable(path string) (*ShopTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shops: %w", err)
	}
	var f shopListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse shops: %w", err)
	}
	shops := make([]*Shop, 0, len(f.Shops))
	for i := range f.Shops {
		e := &f.Shops[i]
		shops = append(shops, NewShop(e.ID, e.Name, e.AreaID, e.Items))
	}
	return NewShopTable(shops...), nil
}
