// Package kprint is the freestanding printf-family formatter spec.md
// §6 lists among its external collaborators: `printf`/`snprintf`/
// `vprintf` over a C99-like `%[flags][width][.precision]type` grammar,
// floats unsupported, output routed through an injected putc callback
// bound to UART.
//
// Grounded on the teacher's hand-rolled digit-printing helpers
// (src/mazboot/golang/main/kernel.go's printHex64/printHex32/uitoa/
// printUint32, src/go/mazarin/kernel.go's uitoa) — each of which
// special-cases one conversion and writes straight to the UART one
// character at a time — generalized per SPEC_FULL.md's Design Notes
// into a single state machine that walks the format string once and
// dispatches per verb, the "variadic printf is a pure state machine"
// shape the corpus's formatter code gestures at without building.
package kprint

import "tinyos/internal/uart"

// PutcFunc is the injected output callback spec.md's printf contract
// requires (`putc(char, void*)`); the context pointer the C signature
// carries is unnecessary in Go, since a closure captures its own.
type PutcFunc func(c byte)

// Putc is the callback Init binds Printf/Panicf's output through.
// Defaults to uart.Putc so kernel code can call Printf before Init
// ever runs (e.g. very early boot diagnostics) as long as uart.Init
// has already configured the device.
var Putc PutcFunc = uart.Putc

// Init rebinds the output callback — normally never necessary, since
// the default already targets UART0, but left overridable the way the
// teacher's putc indirection is (e.g. for a future dual UART+
// framebuffer sink, or for tests that capture output instead of
// writing to a device).
func Init(putc PutcFunc) {
	Putc = putc
}

// Printf formats format per Sprintf and writes it through Putc.
func Printf(format string, args ...any) {
	writeString(Putc, Sprintf(format, args...))
}

// Sprintf formats format against args and returns the result. Floats
// are unsupported (spec.md §6); an unrecognized verb is rendered
// literally and a missing argument formats as a zero value ("0",
// "0x0", '?' or "<nil>", by verb) rather than panicking, so a malformed
// format string used while already handling a panic can't itself
// crash the kernel. Flags: '-' (left-justify), '0' (zero-pad), '+'
// (force sign), '#' (alternate form: "0x"/"0X" prefix on x/X) — the
// '#' flag is an extension past spec.md §6's literal grammar, needed
// because internal/trap's own exception messages already format
// addresses as "%#x".
func Sprintf(format string, args ...any) string {
	var out []byte
	argi := 0
	nextArg := func() any {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return nil
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		spec, rest, ok := parseVerb(format[i+1:])
		if !ok {
			out = append(out, '%')
			continue
		}
		i += len(format[i+1:]) - len(rest)
		out = appendVerb(out, spec, nextArg())
	}
	return string(out)
}

func writeString(putc PutcFunc, s string) {
	for i := 0; i < len(s); i++ {
		putc(s[i])
	}
}
