package dsa

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// checkDice is the roll of a skill check: one W20 per checked attribute.
var checkDice = dice.MustParse("3W20")

// maxQuality caps the quality level of a successful check.
const maxQuality = 6

// CheckResult is the outcome of a skill check.
type CheckResult struct {
	Ability string
	// Targets are the modified values of the three checked attributes.
	Targets [3]int
	Roll    dice.RollResult
	// Remaining is the ability value left after paying for every die that
	// exceeded its target.
	Remaining int
	Success   bool
	// Critical marks two or more natural 1s (success) or 20s (failure).
	Critical bool
	// Quality is 1 to 6 on success and 0 on failure.
	Quality int
}

// Check rolls a skill check of p against ability. mod is added to each
// checked attribute; positive values make the check easier.
//
// Precondition: p must be resolved against this backend's schema.
// Postcondition: Returns an error if ability is not a declared ability with
// exactly three checked attributes.
func (b *Backend) Check(p stat.Player, ability string, mod int) (CheckResult, error) {
	sh := b.CharacterSheet()
	c, r, ok := sh.Lookup(ability)
	if !ok || r.Stat.Kind != stat.KindAbility {
		return CheckResult{}, fmt.Errorf("dsa: %q is not an ability", ability)
	}
	if len(r.Stat.Checks) != len(CheckResult{}.Targets) {
		return CheckResult{}, fmt.Errorf("dsa: ability %q checks %d attributes, want 3", r.Stat.Name, len(r.Stat.Checks))
	}

	res := CheckResult{Ability: r.Stat.Name}
	for i, code := range r.Stat.Checks {
		ac, ar, ok := sh.Lookup(code)
		if !ok || ar.Stat.Kind != stat.KindAttribute {
			panic(fmt.Sprintf("dsa: unknown check attribute %q", code))
		}
		res.Targets[i] = sh.CalcValue(p, ac, ar.Stat) + mod
	}

	res.Roll = b.roller.Roll(checkDice)
	res.Remaining = sh.CalcValue(p, c, r.Stat)
	for i, d := range res.Roll.Dice {
		if over := d - res.Targets[i]; over > 0 {
			res.Remaining -= over
		}
	}

	switch {
	case res.Roll.Count(1) >= 2:
		res.Success, res.Critical = true, true
	case res.Roll.Count(20) >= 2:
		res.Success, res.Critical = false, true
	default:
		res.Success = res.Remaining >= 0
	}
	if res.Success {
		res.Quality = quality(res.Remaining)
	}

	b.logger.Info("skill check",
		zap.String("player", p.Name()),
		zap.String("ability", res.Ability),
		zap.Ints("targets", res.Targets[:]),
		zap.Ints("dice", res.Roll.Dice),
		zap.Int("remaining", res.Remaining),
		zap.Bool("success", res.Success),
		zap.Bool("critical", res.Critical),
		zap.Int("quality", res.Quality),
	)
	return res, nil
}

// quality maps remaining points to a level: 0-3 is 1, 4-6 is 2, and so on.
func quality(remaining int) int {
	if remaining <= 0 {
		return 1
	}
	return min(max((remaining+2)/3, 1), maxQuality)
}
