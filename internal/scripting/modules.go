package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// RegisterModules defines the charsheet global table in L:
//
//	charsheet.system     the rule system ID the VM serves
//	charsheet.ATTRIBUTE  stat kind names passed to hooks
//	charsheet.ABILITY
//	charsheet.COMPOSITE
//	charsheet.log(msg)   writes msg to the application log at info level
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, systemID string) {
	mod := L.NewTable()
	L.SetField(mod, "system", lua.LString(systemID))
	L.SetField(mod, "ATTRIBUTE", lua.LString(stat.KindAttribute.String()))
	L.SetField(mod, "ABILITY", lua.LString(stat.KindAbility.String()))
	L.SetField(mod, "COMPOSITE", lua.LString(stat.KindComposite.String()))
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Info("scripting: script log",
			zap.String("system", systemID),
			zap.String("msg", L.CheckString(1)),
		)
		return 0
	}))
	L.SetGlobal("charsheet", mod)
}
