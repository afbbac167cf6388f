package data

import "sort"

// In-memory table constructors. The YAML loaders route through these so
// file-backed and programmatic tables behave identically.

// NewItemTable builds an item table from templates.
func NewItemTable(items ...*ItemInfo) *ItemTable {
	t := &ItemTable{items: make(map[string]*ItemInfo, len(items))}
	for _, it := range items {
		t.items[it.ID] = it
	}
	return t
}

// NewClassTable builds a class table. Each class's milestones are sorted to
// ascending level order.
func NewClassTable(classes ...*ClassInfo) *ClassTable {
	t := &ClassTable{classes: make(map[string]*ClassInfo, len(classes))}
	for _, c := range classes {
		sort.Slice(c.Milestones, func(a, b int) bool { return c.Milestones[a].Level < c.Milestones[b].Level })
		t.classes[c.ID] = c
	}
	return t
}

// NewSkillTable builds a skill table with its per-class index ordered by
// (MinLevel, ID).
func NewSkillTable(skills ...*SkillInfo) *SkillTable {
	t := &SkillTable{
		skills:  make(map[string]*SkillInfo, len(skills)),
		byClass: make(map[string][]*SkillInfo),
	}
	for _, s := range skills {
		t.skills[s.ID] = s
		t.byClass[s.ClassID] = append(t.byClass[s.ClassID], s)
	}
	for classID := range t.byClass {
		list := t.byClass[classID]
		sort.Slice(list, func(a, b int) bool {
			if list[a].MinLevel != list[b].MinLevel {
				return list[a].MinLevel < list[b].MinLevel
			}
			return list[a].ID < list[b].ID
		})
	}
	return t
}

// NewShop builds a shop from its trade list.
func NewShop(id, name, areaID string, entries []ShopEntry) *Shop {
	s := &Shop{
		ID:      id,
		Name:    name,
		AreaID:  areaID,
		entries: make(map[string]*ShopEntry, len(entries)),
	}
	for i := range entries {
		s.entries[entries[i].ItemID] = &entries[i]
	}
	return s
}

// NewShopTable builds a shop table.
func NewShopTable(shops ...*Shop) *ShopTable {
	t := &ShopTable{shops: make(map[string]*Shop, len(shops))}
	for _, s := range shops {
		t.shops[s.ID] = s
	}
	return t
}

// NewWorldTable builds a world graph. Floor order follows the given slice;
// the first floor is the starting floor. Areas must carry their FloorID.
func NewWorldTable(floors []*FloorInfo, areas []*AreaInfo) *WorldTable {
	t := &WorldTable{
		floors: make(map[string]*FloorInfo, len(floors)),
		areas:  make(map[string]*AreaInfo, len(areas)),
	}
	for _, fl := range floors {
		t.floors[fl.ID] = fl
		t.floorOrder = append(t.floorOrder, fl.ID)
	}
	for _, a := range areas {
		t.areas[a.ID] = a
	}
	return t
}
