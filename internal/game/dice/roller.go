package dice

import "go.uber.org/zap"

// Roller rolls expressions with a Source and logs every roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller.
//
// Precondition: src must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice.NewRoller: precondition violated: src must be non-nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr.
//
// Postcondition: len(result.Dice) == expr.Count and every die is in [1, expr.Sides].
func (r *Roller) Roll(expr Expression) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = r.src.Intn(expr.Sides) + 1
	}
	result := RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}
