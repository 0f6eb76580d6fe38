package keymap

import "testing"

func TestLookupLettersBothCases(t *testing.T) {
	lower, ok := Lookup('f')
	if !ok {
		t.Fatalf("expected f to be mapped")
	}
	if lower.Finger != LeftIndex || lower.Code != "KeyF" || lower.Shift {
		t.Fatalf("unexpected key for f: %+v", lower)
	}
	upper, ok := Lookup('F')
	if !ok {
		t.Fatalf("expected F to be mapped")
	}
	if upper.Finger != LeftIndex || upper.Code != "KeyF" || !upper.Shift {
		t.Fatalf("unexpected key for F: %+v", upper)
	}
}

func TestLookupShiftedSymbols(t *testing.T) {
	cases := map[rune]string{
		'!': "Digit1",
		'@': "Digit2",
		'(': "Digit9",
		')': "Digit0",
		'_': "Minus",
		'+': "Equal",
		'{': "BracketLeft",
		'|': "Backslash",
		':': "Semicolon",
		'"': "Quote",
		'<': "Comma",
		'?': "Slash",
	}
	for r, code := range cases {
		key, ok := Lookup(r)
		if !ok {
			t.Fatalf("expected %q to be mapped", r)
		}
		if key.Code != code || !key.Shift {
			t.Fatalf("unexpected key for %q: %+v", r, key)
		}
	}
}

func TestLookupSpaceAndNewline(t *testing.T) {
	space, ok := Lookup(' ')
	if !ok || space.Finger != LeftThumb {
		t.Fatalf("unexpected space mapping: %+v", space)
	}
	enter, ok := Lookup('\n')
	if !ok || enter.Code != "Enter" || enter.Finger != RightPinky {
		t.Fatalf("unexpected newline mapping: %+v", enter)
	}
}

func TestUnmappedDegradesToNoFinger(t *testing.T) {
	if _, ok := Lookup('é'); ok {
		t.Fatalf("expected é to be unmapped")
	}
	if got := Default().FingerFor('é'); got != FingerNone {
		t.Fatalf("expected no finger, got %s", got)
	}
}

func TestCoversDrillCharacters(t *testing.T) {
	chars := "asdfghjkl;qwertyuiopzxcvbnm,.0123456789!@#$%^&*() ABCXYZ'\"\n"
	for _, r := range chars {
		if _, ok := Lookup(r); !ok {
			t.Fatalf("expected %q to be mapped", r)
		}
	}
}
