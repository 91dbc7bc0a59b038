// Package scripting provides a sandboxed GopherLua environment for house-rule
// scripts. Scripts adjust calculated stat values through the calculator
// decorator returned by Manager.Calculator.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes a single script
// load or hook call may execute when no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's main loop calls Done() once per opcode, making this an exact
// instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done decrements the remaining budget and cancels once it is spent.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

func effectiveLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - Execution limited to at most instLimit Lua opcodes
//
// The limit applies to everything run on the state until Rearm is called.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState. The caller must call L.Close().
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	Rearm(L, instLimit)
	return L
}

// Rearm gives L a fresh budget of instLimit opcodes and returns the function
// that releases it.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
func Rearm(L *lua.LState, instLimit int) context.CancelFunc {
	ctx, cancel := newCountingContext(effectiveLimit(instLimit))
	L.SetContext(ctx)
	return cancel
}
