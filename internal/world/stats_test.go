package world

import (
	"math"
	"testing"
)

func TestExpForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 100},
		{2, 150},
		{3, 225},
		{4, 337},
		{0, 100}, // clamped
	}
	for _, c := range cases {
		if got := ExpForLevel(c.level); got != c.want {
			t.Errorf("ExpForLevel(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}

func TestExpForLevelSaturates(t *testing.T) {
	// 1.5^(level-1) leaves the int64 range well before level 200. The curve
	// must saturate rather than wrap negative.
	for _, level := range []int{120, 200, 1000} {
		got := ExpForLevel(level)
		if got != math.MaxInt64 {
			t.Errorf("ExpForLevel(%d) = %d, want MaxInt64", level, got)
		}
	}
}

func TestGainExperienceTerminatesAtSaturatedCurve(t *testing.T) {
	cls := testClass()
	stats := RecomputeStats(cls, 150)
	out, _, levels := GainExperience(stats, cls, ClassProgress{}, math.MaxInt64)
	if levels < 0 {
		t.Fatalf("levels gained = %d", levels)
	}
	if out.Experience < 0 || out.NextLevelExp <= 0 {
		t.Errorf("experience = %d, next = %d; want non-negative progress against a positive requirement",
			out.Experience, out.NextLevelExp)
	}
}

func TestRecomputeStats(t *testing.T) {
	cls := testClass()

	st := RecomputeStats(cls, 1)
	if st.Health != 100 || st.Mana != 50 || st.Strength != 10 {
		t.Errorf("level 1 sheet: %+v", st)
	}

	// Level 3: floor(base + growth*2). Strength 10 + 1.5*2 = 13.
	st = RecomputeStats(cls, 3)
	if st.Health != 124 || st.Strength != 13 {
		t.Errorf("level 3 sheet: %+v", st)
	}

	// Level 4: strength 10 + 1.5*3 = 14.5, floored to 14.
	if st := RecomputeStats(cls, 4); st.Strength != 14 {
		t.Errorf("level 4 strength = %d, want 14", st.Strength)
	}

	// Level 5 crosses the first milestone: +20 health, +2 strength on top
	// of the curve (health 100+48+20, strength floor(16)+2).
	st = RecomputeStats(cls, 5)
	if st.Health != 168 {
		t.Errorf("level 5 health = %d, want 168", st.Health)
	}
	if st.Strength != 18 {
		t.Errorf("level 5 strength = %d, want 18", st.Strength)
	}

	// Milestones are cumulative: level 10 carries both bonuses.
	st = RecomputeStats(cls, 10)
	if st.Mana != 50+6*9+15 {
		t.Errorf("level 10 mana = %d, want %d", st.Mana, 50+6*9+15)
	}
	if st.Health != 100+12*9+20 {
		t.Errorf("level 10 health = %d, want %d", st.Health, 100+12*9+20)
	}
}

func TestGainExperienceMultiLevel(t *testing.T) {
	cls := testClass()
	stats := RecomputeStats(cls, 1)
	stats.CurrentHealth = stats.Health
	stats.CurrentMana = stats.Mana

	// 100 to pass level 1, 150 to pass level 2: 250 lands exactly on
	// level 3 with zero experience.
	out, _, gained := GainExperience(stats, cls, ClassProgress{}, 250)
	if gained != 2 {
		t.Fatalf("levels gained = %d, want 2", gained)
	}
	if out.Level != 3 || out.Experience != 0 {
		t.Errorf("level %d exp %d, want level 3 exp 0", out.Level, out.Experience)
	}
	if out.NextLevelExp != ExpForLevel(3) {
		t.Errorf("next level exp = %d, want %d", out.NextLevelExp, ExpForLevel(3))
	}
}

func TestGainExperienceCarriesCurrentPools(t *testing.T) {
	cls := testClass()
	stats := RecomputeStats(cls, 1)
	stats.CurrentHealth = 40
	stats.CurrentMana = 10

	out, _, gained := GainExperience(stats, cls, ClassProgress{}, 100)
	if gained != 1 {
		t.Fatalf("levels gained = %d, want 1", gained)
	}
	// No milestone crossed: damage carries over, max grows.
	if out.CurrentHealth != 40 || out.CurrentMana != 10 {
		t.Errorf("pools changed: hp %d mp %d", out.CurrentHealth, out.CurrentMana)
	}
	if out.Health <= stats.Health {
		t.Error("max health should grow on level up")
	}
}

func TestGainExperienceMilestoneRefillAndSkills(t *testing.T) {
	cls := testClass()
	stats := RecomputeStats(cls, 4)
	stats.CurrentHealth = 1
	stats.CurrentMana = 5
	stats.Experience = 0

	// Enough to pass level 4 (ExpForLevel(4) = 337) into level 5.
	out, progress, gained := GainExperience(stats, cls, ClassProgress{}, 400)
	if gained != 1 || out.Level != 5 {
		t.Fatalf("level = %d (+%d), want 5 (+1)", out.Level, gained)
	}
	if out.CurrentHealth != out.Health {
		t.Errorf("milestone refill missed: %d/%d", out.CurrentHealth, out.Health)
	}
	if out.CurrentMana != 5 {
		t.Errorf("mana refilled without refill_mana: %d", out.CurrentMana)
	}
	if !progress.HasSkill("bash") {
		t.Error("milestone skill not unlocked")
	}
	if progress.HasSkill("warcry") {
		t.Error("level 10 skill unlocked early")
	}
}

func TestGainExperienceNoLevelUp(t *testing.T) {
	cls := testClass()
	stats := RecomputeStats(cls, 1)

	out, _, gained := GainExperience(stats, cls, ClassProgress{}, 50)
	if gained != 0 || out.Level != 1 || out.Experience != 50 {
		t.Errorf("got level %d exp %d (+%d)", out.Level, out.Experience, gained)
	}
	if _, _, gained := GainExperience(stats, cls, ClassProgress{}, 0); gained != 0 {
		t.Error("zero grant should be a no-op")
	}
}
