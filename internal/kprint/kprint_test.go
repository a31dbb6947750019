package kprint

import "testing"

func TestSprintfDecimalAndUnsigned(t *testing.T) {
	if got := Sprintf("%d %d", 42, -7); got != "42 -7" {
		t.Fatalf("got %q", got)
	}
	if got := Sprintf("%u", uint32(4294967295)); got != "4294967295" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfHex(t *testing.T) {
	if got := Sprintf("%x %X", uint32(0xdead), uint32(0xbeef)); got != "dead BEEF" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfPointer(t *testing.T) {
	if got := Sprintf("%p", uintptr(0x8000_1000)); got != "0x80001000" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfCharAndString(t *testing.T) {
	if got := Sprintf("%c%s", byte('!'), "ok"); got != "!ok" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfWidthAndZeroPad(t *testing.T) {
	if got := Sprintf("%04x", uint32(0xf)); got != "000f" {
		t.Fatalf("got %q", got)
	}
	if got := Sprintf("%5d", 7); got != "    7" {
		t.Fatalf("got %q", got)
	}
	if got := Sprintf("%-5d|", 7); got != "7    |" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfPrecisionTruncatesString(t *testing.T) {
	if got := Sprintf("%.3s", "hello"); got != "hel" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfLiteralPercent(t *testing.T) {
	if got := Sprintf("100%%"); got != "100%" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfAltFormHexPrefix(t *testing.T) {
	if got := Sprintf("%#x", uint64(0x8000_1234)); got != "0x80001234" {
		t.Fatalf("got %q", got)
	}
}

func TestSprintfForceSign(t *testing.T) {
	if got := Sprintf("%+d %+d", 3, -3); got != "+3 -3" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintfWritesThroughPutc(t *testing.T) {
	var got []byte
	prev := Putc
	defer func() { Putc = prev }()
	Putc = func(c byte) { got = append(got, c) }

	Printf("x=%d", 9)
	if string(got) != "x=9" {
		t.Fatalf("got %q", got)
	}
}
