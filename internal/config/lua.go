package config

import (
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LoadFile runs the Lua script at path and copies its globals into cfg.
func LoadFile(cfg *Config, path string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return apply(L, cfg, path)
}

// LoadString is LoadFile for an in-memory script.
func LoadString(cfg *Config, src string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return apply(L, cfg, "<string>")
}

// openSafeLibs leaves out the os and io libraries.
func openSafeLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

func apply(L *lua.LState, cfg *Config, src string) error {
	var err error
	number := func(name string, set func(float64)) {
		if err != nil {
			return
		}
		switch v := L.GetGlobal(name).(type) {
		case *lua.LNilType:
		case lua.LNumber:
			set(float64(v))
		default:
			err = fmt.Errorf("%w: %s: %s must be a number, got %s", ErrInvalid, src, name, v.Type())
		}
	}
	str := func(name string, set func(string)) {
		if err != nil {
			return
		}
		switch v := L.GetGlobal(name).(type) {
		case *lua.LNilType:
		case lua.LString:
			set(string(v))
		default:
			err = fmt.Errorf("%w: %s: %s must be a string, got %s", ErrInvalid, src, name, v.Type())
		}
	}

	number("sample_rate", func(f float64) { cfg.SampleRate = int(f) })
	number("channels", func(f float64) { cfg.ChannelCount = int(f) })
	number("buffer_ms", func(f float64) { cfg.BufferSize = time.Duration(f * float64(time.Millisecond)) })
	str("log_level", func(s string) { cfg.LogLevel = s })
	str("frontend", func(s string) { cfg.Frontend = s })
	if err != nil {
		return err
	}

	switch v := L.GetGlobal("keys").(type) {
	case *lua.LNilType:
	case lua.LString:
		cfg.Keys = string(v)
	case *lua.LTable:
		var b strings.Builder
		for i := 1; i <= v.Len(); i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok || len(s) != 1 {
				return fmt.Errorf("%w: %s: keys[%d] must be a one-character string", ErrInvalid, src, i)
			}
			b.WriteString(string(s))
		}
		cfg.Keys = b.String()
	default:
		return fmt.Errorf("%w: %s: keys must be a string or table, got %s", ErrInvalid, src, v.Type())
	}
	return nil
}
