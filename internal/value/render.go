package value

import "fmt"

// OutputMode selects how aggregates are rendered (spec §6.4 omode).
type OutputMode int

const (
	OutputFlat OutputMode = iota
	OutputTree
)

// Endian selects the byte order used when an integer is rendered or
// mapped against an I/O space (spec §6.4 endian).
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// NegEncoding selects the encoding used for negative integers (spec §6.4
// nenc).
type NegEncoding int

const (
	TwosComplement NegEncoding = iota
	OnesComplement
)

// RenderConfig carries the output-controls enumerated in spec §6.4,
// generalizing the teacher's two independent theming functions
// (treePrinterTheme for values, asmPrinterTheme for bytecode) into one
// config object threaded through Render instead of global state, per
// Design Note "Global-mutable terminal callbacks".
type RenderConfig struct {
	// Obase is the numeric base used to print integers: 2, 8, 10, or 16.
	Obase int
	// Odepth holds the odepth setting (nesting levels to print, zero
	// meaning unbounded). No Render method reads it: nested aggregates
	// are printed in full.
	Odepth int
	// Oindent holds the oindent setting (spaces per tree-mode level).
	// No Render method reads it.
	Oindent int
	// Oacutoff bounds how many array elements are printed before eliding.
	// Zero means unbounded.
	Oacutoff int
	// Omaps holds the omaps setting. No Render method reads it: mapped
	// values never print their I/O-space offset.
	Omaps bool
	// Omode selects flat vs tree rendering of aggregates.
	Omode OutputMode
	// Endian and Nenc hold the endian and nenc settings. No Render
	// method reads them; the VM's byte-order behavior lives in the
	// I/O-space mapper.
	Endian Endian
	Nenc   NegEncoding
	// PrettyPrint holds a user-supplied formatter closure (spec §6.1
	// set_pretty_print). No Render method calls it: values are always
	// formatted by the default renderer.
	PrettyPrint func(Value) (string, bool)
}

// DefaultRenderConfig returns the configuration a freshly booted facade
// would use (spec §6.4 default obase of 10, flat mode).
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Obase:   10,
		Oindent: 2,
		Omode:   OutputFlat,
		Omaps:   true,
	}
}

// ValidObase reports whether base is one of the four bases spec §6.4
// allows; any other value must be rejected by the caller.
func ValidObase(base int) bool {
	switch base {
	case 2, 8, 10, 16:
		return true
	default:
		return false
	}
}

func formatBase(u uint64, base int) string {
	switch base {
	case 2:
		return "0b" + fmtUint(u, 2)
	case 8:
		return "0" + fmtUint(u, 8)
	case 16:
		return "0x" + fmtUint(u, 16)
	default:
		return fmtUint(u, 10)
	}
}

func fmtUint(u uint64, base int) string {
	return fmt.Sprintf("%s", uintToString(u, base))
}

func uintToString(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdef"
	var buf [64]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = digits[u%uint64(base)]
		u /= uint64(base)
	}
	return string(buf[i:])
}
