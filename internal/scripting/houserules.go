package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// AdjustHook is the Lua function house rules define to change calculated
// values:
//
//	function adjust(id, kind, value) return value end
//
// id is the attribute code or the ability/composite name and kind is one of
// charsheet.ATTRIBUTE, charsheet.ABILITY or charsheet.COMPOSITE.
const AdjustHook = "adjust"

// Calculator returns a decorator that passes every value calculated by next
// through the adjust hook of systemID's VM. A failing hook or a result that
// is not a finite integer leaves the value unchanged.
func (m *Manager) Calculator(systemID string) func(stat.Calculator) stat.Calculator {
	return func(next stat.Calculator) stat.Calculator {
		return stat.CalculatorFunc(func(sh *stat.Sheet, p stat.Player, c *stat.Category, s stat.Stat) int {
			val := next.Calc(sh, p, c, s)
			k := s.Key()
			ret, _ := m.CallHook(systemID, AdjustHook, lua.LString(k.ID), lua.LString(k.Kind.String()), lua.LNumber(val))
			switch r := ret.(type) {
			case *lua.LNilType:
				return val
			case lua.LNumber:
				if n, ok := integral(float64(r)); ok {
					return n
				}
			}
			m.logger.Warn("scripting: adjust returned a non-integer",
				zap.String("system", systemID),
				zap.String("stat", k.String()),
				zap.String("type", ret.Type().String()),
				zap.String("value", ret.String()),
			)
			return val
		})
	}
}

// integral converts f to an int if it is a whole number that fits.
func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= -math.MinInt64 {
		return 0, false
	}
	return int(f), true
}
