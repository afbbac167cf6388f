package world

import (
	"fmt"
	"sort"

	"github.com/emberfall/client/internal/data"
)

// InvItem is one stack occupying one inventory slot.
// Invariants: Quantity >= 1; Quantity <= max stack for the item's type
// (1 for non-stackables); Slot in [0, MaxSlots); no two items share a slot.
type InvItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Slot     int    `json:"slot"`
}

// InventoryState is the slot container.
type InventoryState struct {
	Items    []InvItem `json:"items"`
	MaxSlots int       `json:"maxSlots"`
}

// InventorySettings holds player-tunable inventory behavior.
type InventorySettings struct {
	AutoSort bool `json:"autoSort"`
}

// ActionEntry is one record of the append-only inventory audit log.
// FromSlot/ToSlot are -1 when not applicable.
type ActionEntry struct {
	Kind      string `json:"kind"`
	ItemID    string `json:"itemId"`
	Quantity  int    `json:"quantity"`
	FromSlot  int    `json:"fromSlot"`
	ToSlot    int    `json:"toSlot"`
	Timestamp int64  `json:"timestamp"` // ms since epoch
}

// Inventory bundles the slot state, settings, and audit log.
type Inventory struct {
	State         InventoryState    `json:"state"`
	Settings      InventorySettings `json:"settings"`
	ActionHistory []ActionEntry     `json:"actionHistory"`
}

func (inv Inventory) clone() Inventory {
	out := inv
	out.State.Items = make([]InvItem, len(inv.State.Items))
	copy(out.State.Items, inv.State.Items)
	out.ActionHistory = make([]ActionEntry, len(inv.ActionHistory))
	copy(out.ActionHistory, inv.ActionHistory)
	return out
}

// ItemAt returns the stack at a slot, or nil.
func (st *InventoryState) ItemAt(slot int) *InvItem {
	for i := range st.Items {
		if st.Items[i].Slot == slot {
			return &st.Items[i]
		}
	}
	return nil
}

// CountOf returns the total quantity of an item across all slots.
func (st *InventoryState) CountOf(itemID string) int {
	total := 0
	for i := range st.Items {
		if st.Items[i].ItemID == itemID {
			total += st.Items[i].Quantity
		}
	}
	return total
}

// IsFull reports whether every slot is occupied.
func (st *InventoryState) IsFull() bool {
	return len(st.Items) >= st.MaxSlots
}

// lowestFreeSlot returns the smallest unoccupied slot index, or -1 when full.
func lowestFreeSlot(items []InvItem, maxSlots int) int {
	used := make(map[int]bool, len(items))
	for i := range items {
		used[items[i].Slot] = true
	}
	for s := 0; s < maxSlots; s++ {
		if !used[s] {
			return s
		}
	}
	return -1
}

// bySlot returns item indexes ordered by ascending slot.
func bySlot(items []InvItem) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return items[idx[a]].Slot < items[idx[b]].Slot })
	return idx
}

func cloneItems(items []InvItem) []InvItem {
	out := make([]InvItem, len(items))
	copy(out, items)
	return out
}

// AddItem places quantity units of an item: existing stacks of the same item
// are topped up in slot order first, then new stacks open at the lowest free
// slot. Best effort: whatever fits is committed and the placed count is
// returned; placed == 0 leaves the state untouched.
func AddItem(st InventoryState, info *data.ItemInfo, quantity int) (InventoryState, int) {
	if info == nil || quantity <= 0 {
		return st, 0
	}
	maxStack := info.MaxStackSize()
	remaining := quantity
	items := cloneItems(st.Items)

	if info.Stackable && maxStack > 1 {
		for _, i := range bySlot(items) {
			if remaining == 0 {
				break
			}
			it := &items[i]
			if it.ItemID != info.ID || it.Quantity >= maxStack {
				continue
			}
			room := maxStack - it.Quantity
			take := remaining
			if take > room {
				take = room
			}
			it.Quantity += take
			remaining -= take
		}
	}

	for remaining > 0 {
		slot := lowestFreeSlot(items, st.MaxSlots)
		if slot < 0 {
			break
		}
		n := remaining
		if n > maxStack {
			n = maxStack
		}
		items = append(items, InvItem{ItemID: info.ID, Quantity: n, Slot: slot})
		remaining -= n
	}

	placed := quantity - remaining
	if placed == 0 {
		return st, 0
	}
	return InventoryState{Items: items, MaxSlots: st.MaxSlots}, placed
}

// RemoveFromSlot decrements a slot's stack, deleting the slot entry when the
// quantity would drop to zero or below. Returns the units actually removed
// (0 when the slot is empty).
func RemoveFromSlot(st InventoryState, slot, quantity int) (InventoryState, int) {
	if quantity <= 0 {
		return st, 0
	}
	for i := range st.Items {
		if st.Items[i].Slot != slot {
			continue
		}
		items := cloneItems(st.Items)
		if items[i].Quantity > quantity {
			items[i].Quantity -= quantity
			return InventoryState{Items: items, MaxSlots: st.MaxSlots}, quantity
		}
		removed := items[i].Quantity
		items = append(items[:i], items[i+1:]...)
		return InventoryState{Items: items, MaxSlots: st.MaxSlots}, removed
	}
	return st, 0
}

// MoveItem relocates, swaps, or merges between two slots. Same stackable item
// in both slots merges up to the stack cap, leaving the overflow at the
// source (never silently dropped). Different items trade slots.
func MoveItem(st InventoryState, tbl *data.ItemTable, fromSlot, toSlot int) (InventoryState, bool) {
	if fromSlot == toSlot || fromSlot < 0 || toSlot < 0 || fromSlot >= st.MaxSlots || toSlot >= st.MaxSlots {
		return st, false
	}
	var fromIdx, toIdx = -1, -1
	for i := range st.Items {
		switch st.Items[i].Slot {
		case fromSlot:
			fromIdx = i
		case toSlot:
			toIdx = i
		}
	}
	if fromIdx < 0 {
		return st, false
	}
	items := cloneItems(st.Items)

	if toIdx < 0 {
		items[fromIdx].Slot = toSlot
		return InventoryState{Items: items, MaxSlots: st.MaxSlots}, true
	}

	from, to := &items[fromIdx], &items[toIdx]
	if from.ItemID == to.ItemID {
		if info := tbl.Get(from.ItemID); info != nil && info.Stackable {
			maxStack := info.MaxStackSize()
			total := from.Quantity + to.Quantity
			if total <= maxStack {
				to.Quantity = total
				items = append(items[:fromIdx], items[fromIdx+1:]...)
			} else {
				to.Quantity = maxStack
				from.Quantity = total - maxStack
			}
			return InventoryState{Items: items, MaxSlots: st.MaxSlots}, true
		}
	}

	from.Slot, to.Slot = toSlot, fromSlot
	return InventoryState{Items: items, MaxSlots: st.MaxSlots}, true
}

// SplitStack moves part of a stack to another slot. Requires
// 0 < amount < source quantity (a full-stack split is a move, and the caller
// is expected to route it there). The destination may be empty or hold the
// same stackable item with room under the cap.
func SplitStack(st InventoryState, tbl *data.ItemTable, fromSlot, toSlot, amount int) (InventoryState, bool) {
	if fromSlot == toSlot || amount <= 0 {
		return st, false
	}
	if toSlot < 0 || toSlot >= st.MaxSlots {
		return st, false
	}
	var fromIdx, toIdx = -1, -1
	for i := range st.Items {
		switch st.Items[i].Slot {
		case fromSlot:
			fromIdx = i
		case toSlot:
			toIdx = i
		}
	}
	if fromIdx < 0 || amount >= st.Items[fromIdx].Quantity {
		return st, false
	}
	info := tbl.Get(st.Items[fromIdx].ItemID)
	if info == nil {
		return st, false
	}
	items := cloneItems(st.Items)
	from := &items[fromIdx]

	if toIdx < 0 {
		from.Quantity -= amount
		items = append(items, InvItem{ItemID: from.ItemID, Quantity: amount, Slot: toSlot})
		return InventoryState{Items: items, MaxSlots: st.MaxSlots}, true
	}

	to := &items[toIdx]
	if to.ItemID != from.ItemID || !info.Stackable {
		return st, false
	}
	if to.Quantity+amount > info.MaxStackSize() {
		return st, false
	}
	from.Quantity -= amount
	to.Quantity += amount
	return InventoryState{Items: items, MaxSlots: st.MaxSlots}, true
}

// DiscardSlots removes every listed slot that actually holds an item,
// silently ignoring empty or invalid slot numbers. Returns the removed
// stacks for audit logging.
func DiscardSlots(st InventoryState, slots []int) (InventoryState, []InvItem) {
	drop := make(map[int]bool, len(slots))
	for _, s := range slots {
		drop[s] = true
	}
	var removed []InvItem
	items := make([]InvItem, 0, len(st.Items))
	for i := range st.Items {
		if drop[st.Items[i].Slot] {
			removed = append(removed, st.Items[i])
			continue
		}
		items = append(items, st.Items[i])
	}
	if len(removed) == 0 {
		return st, nil
	}
	return InventoryState{Items: items, MaxSlots: st.MaxSlots}, removed
}

// SortInventory canonicalizes the layout: stacks of each item are merged into
// the fewest full stacks, groups ordered by (type weight, item id), packed
// from slot 0 upward. A layout that would exceed MaxSlots is an invariant
// violation; the sort is rejected with an error and the state is unchanged
// rather than dropping items.
func SortInventory(st InventoryState, tbl *data.ItemTable) (InventoryState, error) {
	if len(st.Items) == 0 {
		return st, nil
	}

	totals := make(map[string]int, len(st.Items))
	for i := range st.Items {
		totals[st.Items[i].ItemID] += st.Items[i].Quantity
	}
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		wa, wb := sortWeight(tbl, ids[a]), sortWeight(tbl, ids[b])
		if wa != wb {
			return wa < wb
		}
		return ids[a] < ids[b]
	})

	items := make([]InvItem, 0, len(st.Items))
	slot := 0
	for _, id := range ids {
		maxStack := 1
		if info := tbl.Get(id); info != nil {
			maxStack = info.MaxStackSize()
		}
		remaining := totals[id]
		for remaining > 0 {
			n := remaining
			if n > maxStack {
				n = maxStack
			}
			items = append(items, InvItem{ItemID: id, Quantity: n, Slot: slot})
			slot++
			remaining -= n
		}
	}

	if len(items) > st.MaxSlots {
		return st, fmt.Errorf("sort would need %d slots but inventory has %d", len(items), st.MaxSlots)
	}
	return InventoryState{Items: items, MaxSlots: st.MaxSlots}, nil
}

func sortWeight(tbl *data.ItemTable, itemID string) int {
	if info := tbl.Get(itemID); info != nil {
		return data.TypeWeight(info.Type)
	}
	return data.TypeWeight("")
}
