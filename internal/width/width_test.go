package width

import "testing"

func TestStringWidth(t *testing.T) {
	tab := Default()
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"a\tb", 3},
		{"漢", 2},
		{"漢字x", 5},
		{"ｱ", 1},
		{"Ａ", 2},
		{"é", 1},
		{"\x00", 1},
	}
	for _, tt := range tests {
		if got := tab.String(tt.in); got != tt.want {
			t.Fatalf("String(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestZeroTableIsDefault(t *testing.T) {
	var zero Table
	if got := zero.String("漢a"); got != 3 {
		t.Fatalf("zero table width = %d, want 3", got)
	}
}

func TestCustomWideWidth(t *testing.T) {
	tab := Table{Wide: 3}
	if got := tab.String("漢a"); got != 4 {
		t.Fatalf("wide=3 width = %d, want 4", got)
	}
}

func TestAmbiguousWidth(t *testing.T) {
	// U+00B1 PLUS-MINUS SIGN is East Asian Ambiguous.
	if got := Default().Rune('±'); got != 1 {
		t.Fatalf("default ambiguous = %d, want 1", got)
	}
	tab := Table{Ambiguous: 2}
	if got := tab.Rune('±'); got != 2 {
		t.Fatalf("ambiguous=2 = %d, want 2", got)
	}
}

func TestTerminalClassifier(t *testing.T) {
	tab := Table{Classifier: Terminal}
	if got := tab.Rune('漢'); got != 2 {
		t.Fatalf("terminal 漢 = %d, want 2", got)
	}
	if got := tab.Rune('a'); got != 1 {
		t.Fatalf("terminal a = %d, want 1", got)
	}
	// combining marks still occupy a column in the alignment model
	if got := tab.Rune('\u0301'); got != 1 {
		t.Fatalf("terminal combining = %d, want 1", got)
	}
}

func TestPrefix(t *testing.T) {
	rs := []rune("漢a\tb")
	tab := Default()
	cases := map[int]int{-1: 0, 0: 0, 1: 2, 2: 3, 3: 4, 10: 5}
	for n, want := range cases {
		if got := tab.Prefix(rs, n); got != want {
			t.Fatalf("Prefix(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestParseClassifier(t *testing.T) {
	if c, ok := ParseClassifier(" Terminal "); !ok || c != Terminal {
		t.Fatalf("ParseClassifier terminal = %v %v", c, ok)
	}
	if c, ok := ParseClassifier("east-asian"); !ok || c != EastAsian {
		t.Fatalf("ParseClassifier east-asian = %v %v", c, ok)
	}
	if _, ok := ParseClassifier("bogus"); ok {
		t.Fatalf("ParseClassifier bogus ok = true")
	}
	if EastAsian.String() != "east-asian" {
		t.Fatalf("String = %q", EastAsian.String())
	}
}
