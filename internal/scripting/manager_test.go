package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0o644))
	return dir
}

func TestManager_LoadSystem_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	ret, err := mgr.CallHook("dsa", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
	assert.True(t, mgr.HasHook("dsa", "test_hook"))
	assert.False(t, mgr.HasHook("dsa", "other_hook"))
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	ret, err := mgr.CallHook("dsa", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_NonFunctionGlobal_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "value.lua", `adjust = 5`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	ret, err := mgr.CallHook("dsa", "adjust")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownSystem_ReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("gurps", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: no VM for system").Len())
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	ret, err := mgr.CallHook("dsa", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	entries := logs.FilterMessage("scripting: Lua runtime error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestManager_CallHook_InstructionLimitIsPerCall(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `
		function spin() while true do end end
		function sum(n) local x = 0 for i = 1, n do x = x + i end return x end
	`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 500))
	ret, _ := mgr.CallHook("dsa", "spin")
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())

	for i := 0; i < 5; i++ {
		ret, _ = mgr.CallHook("dsa", "sum", lua.LNumber(10))
		assert.Equal(t, lua.LNumber(55), ret)
	}
}

func TestManager_LoadGlobal_CallHookFallback(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "global.lua", `
		function global_hook()
			return 42
		end
	`)
	require.NoError(t, mgr.LoadGlobal(dir, 0))
	ret, err := mgr.CallHook("dsa", "global_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManager_LoadSystem_EmptyDir_NoError(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadSystem("dsa", t.TempDir(), 0))
	ret, err := mgr.CallHook("dsa", "anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_LoadSystem_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadSystem("dsa", dir, 0))
}

func TestManager_LoadSystem_MissingDir_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadSystem("dsa", filepath.Join(t.TempDir(), "absent"), 0))
}

func TestManager_LoadSystem_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0o644))
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	ret, err := mgr.CallHook("dsa", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_ModuleTable(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "module.lua", `
		function describe()
			charsheet.log("hello from " .. charsheet.system)
			return charsheet.ATTRIBUTE .. "," .. charsheet.ABILITY .. "," .. charsheet.COMPOSITE
		end
	`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	ret, err := mgr.CallHook("dsa", "describe")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("attribute,ability,composite"), ret)
	entries := logs.FilterMessage("scripting: script log").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello from dsa", entries[0].ContextMap()["msg"])
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { scripting.NewManager(nil) })
}

func TestManager_Close_ReleasesVMs(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))
	mgr.Close()
	ret, err := mgr.CallHook("dsa", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestProperty_CallHookMissingSystemNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		system := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "system")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		ret, err := mgr.CallHook(system, hook)
		if err != nil || ret != lua.LNil {
			rt.Fatalf("CallHook(%q, %q) = %v, %v", system, hook, ret, err)
		}
	})
}

func TestProperty_CallHookConcurrent_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function concurrent_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadSystem("dsa", dir, 0))

	const goroutines = 10
	const callsEach = 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				ret, err := mgr.CallHook("dsa", "concurrent_hook", lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()
}
