package world

import (
	"math"

	"github.com/emberfall/client/internal/data"
)

// RecomputeStats derives the full stat sheet for a class at a level:
// floor(base + growth × (level-1)) per stat, plus the flat bonus of every
// milestone whose threshold has been reached (cumulative, not curve-based).
// Experience and current health/mana are left for the caller to settle.
func RecomputeStats(cls *data.ClassInfo, level int) CharacterStats {
	if level < 1 {
		level = 1
	}
	derive := func(base, growth float64) int {
		return int(math.Floor(base + growth*float64(level-1)))
	}
	st := CharacterStats{
		Level:        level,
		NextLevelExp: ExpForLevel(level),
		Health:       derive(cls.Base.Health, cls.Growth.Health),
		Mana:         derive(cls.Base.Mana, cls.Growth.Mana),
		Strength:     derive(cls.Base.Strength, cls.Growth.Strength),
		Dexterity:    derive(cls.Base.Dexterity, cls.Growth.Dexterity),
		Intelligence: derive(cls.Base.Intelligence, cls.Growth.Intelligence),
	}
	for _, ms := range cls.Milestones {
		if ms.Level > level {
			break
		}
		st.Health += int(ms.Bonus.Health)
		st.Mana += int(ms.Bonus.Mana)
		st.Strength += int(ms.Bonus.Strength)
		st.Dexterity += int(ms.Bonus.Dexterity)
		st.Intelligence += int(ms.Bonus.Intelligence)
	}
	return st
}

// GainExperience accumulates experience, applying every level-up crossed by
// the grant in one transition. Current health/mana carry over (clamped to
// the new max) unless a crossed milestone declares a refill. Milestone
// skills unlock into the class progress.
func GainExperience(stats CharacterStats, cls *data.ClassInfo, progress ClassProgress, amount int64) (CharacterStats, ClassProgress, int) {
	if amount <= 0 {
		return stats, progress, 0
	}
	oldLevel := stats.Level
	exp := stats.Experience + amount
	level := stats.Level
	next := stats.NextLevelExp
	if next <= 0 {
		next = ExpForLevel(level)
	}
	for exp >= next {
		exp -= next
		level++
		next = ExpForLevel(level)
	}
	if level == oldLevel {
		out := stats
		out.Experience = exp
		return out, progress, 0
	}

	out := RecomputeStats(cls, level)
	out.Experience = exp
	out.CurrentHealth = stats.CurrentHealth
	out.CurrentMana = stats.CurrentMana
	for _, ms := range cls.Milestones {
		if ms.Level <= oldLevel || ms.Level > level {
			continue
		}
		if ms.RefillHealth {
			out.CurrentHealth = out.Health
		}
		if ms.RefillMana {
			out.CurrentMana = out.Mana
		}
		for _, skillID := range ms.Skills {
			progress = progress.withSkill(skillID)
		}
	}
	if out.CurrentHealth > out.Health {
		out.CurrentHealth = out.Health
	}
	if out.CurrentMana > out.Mana {
		out.CurrentMana = out.Mana
	}
	return out, progress, level - oldLevel
}
