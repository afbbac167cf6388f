package world

import "github.com/emberfall/client/internal/data"

// EquipCheck explains an equip eligibility decision.
type EquipCheck struct {
	OK     bool
	Reason string
}

// CanEquip checks the single-weapon equip rules: the weapon's type must be in
// the class's allowed set and the character must meet each requirement the
// weapon declares (zero-valued requirement fields are unchecked).
func CanEquip(stats CharacterStats, cls *data.ClassInfo, weapon *data.ItemInfo) EquipCheck {
	if weapon == nil || weapon.Type != data.TypeWeapon {
		return EquipCheck{Reason: "not a weapon"}
	}
	if !cls.CanUseWeaponType(weapon.WeaponType) {
		return EquipCheck{Reason: "weapon type not allowed for class"}
	}
	if weapon.MinLevel > 0 && stats.Level < weapon.MinLevel {
		return EquipCheck{Reason: "level too low"}
	}
	if weapon.MinStr > 0 && stats.Strength < weapon.MinStr {
		return EquipCheck{Reason: "strength too low"}
	}
	if weapon.MinDex > 0 && stats.Dexterity < weapon.MinDex {
		return EquipCheck{Reason: "dexterity too low"}
	}
	if weapon.MinInt > 0 && stats.Intelligence < weapon.MinInt {
		return EquipCheck{Reason: "intelligence too low"}
	}
	return EquipCheck{OK: true}
}
