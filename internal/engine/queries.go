package engine

import (
	"time"

	"github.com/emberfall/client/internal/world"
)

// Queries are pure reads of the last committed snapshot. They are what the
// presentation layer renders from; none of them touch queue-internal state.

// Balance returns the current balance of one currency.
func (e *Engine) Balance(t world.CurrencyType) int64 {
	return e.Snapshot().Player.Currency[t]
}

// CooldownRemaining returns how long until a skill leaves cooldown
// (zero when ready).
func (e *Engine) CooldownRemaining(skillID string) time.Duration {
	s := e.Snapshot()
	end, ok := s.Player.SkillRuntime.Cooldowns[skillID]
	if !ok {
		return 0
	}
	remaining := end - e.now().UnixMilli()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining) * time.Millisecond
}

// ActiveEffects returns the effect types currently running with their
// remaining durations.
func (e *Engine) ActiveEffects() map[string]time.Duration {
	s := e.Snapshot()
	now := e.now().UnixMilli()
	out := make(map[string]time.Duration)
	for typ, end := range s.Player.SkillRuntime.Effects {
		if end > now {
			out[typ] = time.Duration(end-now) * time.Millisecond
		}
	}
	return out
}

// CanEquip reports whether the current character may equip a weapon.
func (e *Engine) CanEquip(itemID string) world.EquipCheck {
	s := e.Snapshot()
	cls := e.env.Classes.Get(s.Player.CurrentClassID)
	if cls == nil {
		return world.EquipCheck{Reason: "unknown class"}
	}
	return world.CanEquip(s.Player.CharacterStats, cls, e.env.Items.Get(itemID))
}

// CanUseSkill reports whether a skill could execute right now.
func (e *Engine) CanUseSkill(skillID string) world.SkillCheck {
	s := e.Snapshot()
	skill := e.env.Skills.Get(skillID)
	if skill == nil {
		return world.SkillCheck{Reason: "unknown skill"}
	}
	return world.CanUseSkill(&s.Player, skill, e.weaponType(s), e.now().UnixMilli())
}

// Skills partitions the current class's skill list into active and locked.
func (e *Engine) Skills() world.SkillAvailability {
	s := e.Snapshot()
	list := e.env.Skills.ForClass(s.Player.CurrentClassID)
	return world.ListSkills(&s.Player, list, e.weaponType(s))
}

// Exploration returns the recorded progress for an area.
func (e *Engine) Exploration(areaID string) world.AreaProgress {
	return e.Snapshot().Player.MapSaveData.AreaProgress[areaID]
}

// Location returns the player's current floor and area ids.
func (e *Engine) Location() world.LocationData {
	return e.Snapshot().Player.LocationData
}

func (e *Engine) weaponType(s *world.GameSave) string {
	if s.Player.Equipped.Weapon == "" {
		return ""
	}
	if info := e.env.Items.Get(s.Player.Equipped.Weapon); info != nil {
		return info.WeaponType
	}
	return ""
}
