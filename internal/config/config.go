// Package config implements the compiler's typed key/value
// configuration map, generalizing the teacher's Config (_examples/clarete-langlang/go/config.go: a map[string]*cfgVal with Set/Get pairs per value kind)
// from grammar-loader toggles to spec §6.4's flags and output
// controls, plus the ambient `compiler.optimize` knob the teacher
// already carries.
package config

import "fmt"

type valType int

const (
	typeUndefined valType = iota
	typeBool
	typeInt
	typeString
)

func (vt valType) String() string {
	switch vt {
	case typeBool:
		return "bool"
	case typeInt:
		return "int"
	case typeString:
		return "string"
	default:
		return "undefined"
	}
}

type val struct {
	typ      valType
	asBool   bool
	asInt    int
	asString string
}

func (v *val) assign(vt valType) {
	if v.typ != vt && v.typ != typeUndefined {
		panic(fmt.Sprintf("config: can't assign %s to existing %s value", vt, v.typ))
	}
	v.typ = vt
}

func (v *val) check(vt valType) {
	if v.typ != vt {
		panic(fmt.Sprintf("config: can't retrieve %s from %s value", vt, v.typ))
	}
}

// Config is a typed settings map (spec §6.4's flags: endian, nenc,
// omode, obase, pretty-print toggles, error_on_warning, quiet, lexical
// cuckolding, plus `compiler.optimize`).
type Config map[string]*val

const (
	KeyEndian            = "output.endian"
	KeyNegEncoding        = "output.nenc"
	KeyOutputMode         = "output.omode"
	KeyObase              = "output.obase"
	KeyOdepth             = "output.odepth"
	KeyOindent            = "output.oindent"
	KeyOacutoff           = "output.oacutoff"
	KeyOmaps              = "output.omaps"
	KeyPrettyPrint        = "output.pretty_print"
	KeyErrorOnWarning     = "compiler.error_on_warning"
	KeyQuiet              = "compiler.quiet"
	KeyLexicalCuckolding  = "compiler.lexical_cuckolding"
	KeyOptimize           = "compiler.optimize"
)

// New returns a Config primed with the defaults spec §6.4 implies:
// little-endian, two's-complement, flat output mode, base 10, no
// truncation, warnings are not fatal, not quiet, no lexical
// cuckolding, and the teacher's optimize=1 default carried over
// unchanged.
func New() *Config {
	c := make(Config)
	c.SetInt(KeyEndian, 0)  // 0 = little-significant-byte, 1 = most-significant-byte
	c.SetInt(KeyNegEncoding, 0) // 0 = two's complement, 1 = one's complement
	c.SetInt(KeyOutputMode, 0) // 0 = flat, 1 = tree
	c.SetInt(KeyObase, 10)
	c.SetInt(KeyOdepth, 0)
	c.SetInt(KeyOindent, 2)
	c.SetInt(KeyOacutoff, 0)
	c.SetBool(KeyOmaps, true)
	c.SetBool(KeyPrettyPrint, true)
	c.SetBool(KeyErrorOnWarning, false)
	c.SetBool(KeyQuiet, false)
	c.SetBool(KeyLexicalCuckolding, false)
	c.SetInt(KeyOptimize, 1)
	return &c
}

func (c *Config) SetBool(key string, v bool) {
	e := &val{}
	e.assign(typeBool)
	e.asBool = v
	(*c)[key] = e
}

func (c *Config) SetInt(key string, v int) {
	e := &val{}
	e.assign(typeInt)
	e.asInt = v
	(*c)[key] = e
}

func (c *Config) SetString(key string, v string) {
	e := &val{}
	e.assign(typeString)
	e.asString = v
	(*c)[key] = e
}

func (c *Config) GetBool(key string) bool {
	if e, ok := (*c)[key]; ok {
		e.check(typeBool)
		return e.asBool
	}
	panic(fmt.Sprintf("config: bool setting %q does not exist", key))
}

func (c *Config) GetInt(key string) int {
	if e, ok := (*c)[key]; ok {
		e.check(typeInt)
		return e.asInt
	}
	panic(fmt.Sprintf("config: int setting %q does not exist", key))
}

func (c *Config) GetString(key string) string {
	if e, ok := (*c)[key]; ok {
		e.check(typeString)
		return e.asString
	}
	panic(fmt.Sprintf("config: string setting %q does not exist", key))
}
