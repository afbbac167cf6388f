package world

import "github.com/emberfall/client/internal/data"

// SkillCheck explains a skill usability decision.
type SkillCheck struct {
	OK     bool
	Reason string
}

// CanUseSkill checks the transient execution gates: cooldown still running,
// not enough mana, weapon restriction unmet, or level too low.
func CanUseSkill(p *PlayerData, skill *data.SkillInfo, weaponType string, nowMillis int64) SkillCheck {
	if end, ok := p.SkillRuntime.Cooldowns[skill.ID]; ok && end > nowMillis {
		return SkillCheck{Reason: "on cooldown"}
	}
	if p.CharacterStats.CurrentMana < skill.ManaCost {
		return SkillCheck{Reason: "not enough mana"}
	}
	if !skill.AllowsWeaponType(weaponType) {
		return SkillCheck{Reason: "wrong weapon"}
	}
	if p.CharacterStats.Level < skill.MinLevel {
		return SkillCheck{Reason: "level too low"}
	}
	return SkillCheck{OK: true}
}

// useSkill applies a successful skill use in place on an already-cloned
// player: mana cost, cooldown stamp, and effect end times. A newly applied
// effect of the same type overwrites the previous end time (no stacking).
// roll returns an int in [0, n).
func useSkill(p *PlayerData, skill *data.SkillInfo, nowMillis int64, roll func(n int) int) {
	p.CharacterStats.CurrentMana -= skill.ManaCost
	if skill.Cooldown > 0 {
		p.SkillRuntime.Cooldowns[skill.ID] = nowMillis + int64(skill.Cooldown*1000)
	}
	for _, eff := range skill.Effects {
		chance := eff.Chance
		if chance <= 0 {
			chance = 100
		}
		if chance < 100 && roll(100) >= chance {
			continue
		}
		p.SkillRuntime.Effects[eff.Type] = nowMillis + int64(eff.Duration*1000)
	}
}

// SkillAvailability partitions a class's skill list for display. Level and
// weapon requirements decide active vs locked; an active cooldown does not
// lock a skill (it is an execution block, not an availability state).
type SkillAvailability struct {
	Active []*data.SkillInfo
	Locked []*data.SkillInfo
}

// ListSkills partitions the unlocked-or-listed skills of the current class.
func ListSkills(p *PlayerData, skills []*data.SkillInfo, weaponType string) SkillAvailability {
	var out SkillAvailability
	for _, s := range skills {
		if p.CharacterStats.Level >= s.MinLevel && s.AllowsWeaponType(weaponType) {
			out.Active = append(out.Active, s)
		} else {
			out.Locked = append(out.Locked, s)
		}
	}
	return out
}
