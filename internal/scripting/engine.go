// Package scripting runs consumable item effects through a Lua VM. Each
// consumable's effect descriptor names a global Lua function; scripts are
// loaded once at boot from the configured directory.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/emberfall/client/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Calls are serialized internally; the
// update-queue drain is the only expected caller.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in the directory.
// A missing directory is fine; item effects are simply disabled.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load effect scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded effect script", zap.String("file", path))
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}

// RunItemEffect calls the named global Lua function with the character sheet
// as a table and reads back {health_delta=…, mana_delta=…}.
func (e *Engine) RunItemEffect(name string, stats world.CharacterStats) (world.EffectOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return world.EffectOutcome{}, fmt.Errorf("unknown effect %q", name)
	}

	sheet := e.vm.NewTable()
	e.vm.SetField(sheet, "level", lua.LNumber(stats.Level))
	e.vm.SetField(sheet, "health", lua.LNumber(stats.Health))
	e.vm.SetField(sheet, "current_health", lua.LNumber(stats.CurrentHealth))
	e.vm.SetField(sheet, "mana", lua.LNumber(stats.Mana))
	e.vm.SetField(sheet, "current_mana", lua.LNumber(stats.CurrentMana))
	e.vm.SetField(sheet, "strength", lua.LNumber(stats.Strength))
	e.vm.SetField(sheet, "dexterity", lua.LNumber(stats.Dexterity))
	e.vm.SetField(sheet, "intelligence", lua.LNumber(stats.Intelligence))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, sheet); err != nil {
		return world.EffectOutcome{}, fmt.Errorf("effect %q: %w", name, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return world.EffectOutcome{}, fmt.Errorf("effect %q returned %s, want table", name, ret.Type())
	}
	out := world.EffectOutcome{
		HealthDelta: int(lua.LVAsNumber(tbl.RawGetString("health_delta"))),
		ManaDelta:   int(lua.LVAsNumber(tbl.RawGetString("mana_delta"))),
	}
	return out, nil
}
