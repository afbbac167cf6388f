package world

import (
	"github.com/emberfall/client/internal/data"
)

// Shared fixtures. The catalog mirrors a small slice of real content: one
// class, a couple of weapons, stackables of each interesting type.

func testItems() *data.ItemTable {
	return data.NewItemTable(
		&data.ItemInfo{ID: "potion", Name: "Potion", Type: data.TypeConsumable, Stackable: true, Value: 25, Effect: "heal"},
		&data.ItemInfo{ID: "ore", Name: "Ore", Type: data.TypeMaterial, Stackable: true, Value: 12},
		&data.ItemInfo{ID: "charm", Name: "Charm", Type: data.TypeAccessory, Value: 60},
		&data.ItemInfo{ID: "sword", Name: "Sword", Type: data.TypeWeapon, WeaponType: "sword", Value: 50, Damage: 4},
		&data.ItemInfo{ID: "greatsword", Name: "Greatsword", Type: data.TypeWeapon, WeaponType: "sword", Value: 800, Damage: 15, MinLevel: 5, MinStr: 14},
		&data.ItemInfo{ID: "bow", Name: "Bow", Type: data.TypeWeapon, WeaponType: "bow", Value: 180, Damage: 7},
	)
}

func testClass() *data.ClassInfo {
	return &data.ClassInfo{
		ID:             "warrior",
		Name:           "Warrior",
		Base:           data.StatBlock{Health: 100, Mana: 50, Strength: 10, Dexterity: 10, Intelligence: 10},
		Growth:         data.StatBlock{Health: 12, Mana: 6, Strength: 1.5, Dexterity: 1.5, Intelligence: 1},
		AllowedWeapons: []string{"sword"},
		Milestones: []data.Milestone{
			{Level: 5, Bonus: data.StatBlock{Health: 20, Strength: 2}, Skills: []string{"bash"}, RefillHealth: true},
			{Level: 10, Bonus: data.StatBlock{Mana: 15}, Skills: []string{"warcry"}, RefillMana: true},
		},
	}
}

func testSkills() *data.SkillTable {
	return data.NewSkillTable(
		&data.SkillInfo{
			ID: "bash", Name: "Bash", ClassID: "warrior",
			MinLevel: 5, ManaCost: 8, Cooldown: 6,
			AllowedWeapons: []string{"sword"},
			Effects:        []data.SkillEffect{{Type: "attack-up", Duration: 10, Power: 5}},
		},
		&data.SkillInfo{
			ID: "warcry", Name: "Warcry", ClassID: "warrior",
			MinLevel: 10, ManaCost: 12, Cooldown: 20,
			Effects: []data.SkillEffect{{Type: "haste", Duration: 15, Chance: 50, Power: 3}},
		},
	)
}

func testWorld() *data.WorldTable {
	return data.NewWorldTable(
		[]*data.FloorInfo{
			{ID: "f1", Name: "Floor One", TownAreaID: "town"},
			{ID: "f2", Name: "Floor Two", TownAreaID: "town2", RequiredBoss: "golem"},
		},
		[]*data.AreaInfo{
			{ID: "town", FloorID: "f1", Type: data.AreaTown, Connections: []data.Connection{{AreaID: "field"}}},
			{ID: "field", FloorID: "f1", Type: data.AreaField, Position: data.Position{X: 6, Y: 8},
				Connections: []data.Connection{{AreaID: "town"}, {AreaID: "cave", RequiredExploration: 60}}},
			{ID: "cave", FloorID: "f1", Type: data.AreaDungeon, Connections: []data.Connection{{AreaID: "field"}}},
			{ID: "town2", FloorID: "f2", Type: data.AreaTown},
		},
	)
}

func testShops() *data.ShopTable {
	return data.NewShopTable(
		data.NewShop("store", "Store", "town", []data.ShopEntry{
			{ItemID: "potion", BuyPrice: 25, SellPrice: 10},
			{ItemID: "ore", BuyPrice: -1, SellPrice: 6},
			{ItemID: "sword", BuyPrice: 50, SellPrice: 20},
		}),
	)
}

func testEnv() *Env {
	return &Env{
		Items:   testItems(),
		Classes: data.NewClassTable(testClass()),
		Skills:  testSkills(),
		Shops:   testShops(),
		World:   testWorld(),
		Roll:    func(n int) int { return 0 },
	}
}

func testSave(env *Env) *GameSave {
	return NewPlayer("Tester", env.Classes.Get("warrior"), env.World, 30, 1000)
}

// give places items directly, failing loudly on overflow so fixtures stay honest.
func give(save *GameSave, env *Env, itemID string, qty int) *GameSave {
	info := env.Items.Get(itemID)
	st, placed := AddItem(save.Player.Inventory.State, info, qty)
	if placed != qty {
		panic("fixture overflow: " + itemID)
	}
	save.Player.Inventory.State = st
	return save
}
