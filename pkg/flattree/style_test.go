package flattree

import "testing"

// TestParseColor verifies the accepted color spellings
func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"255 0 0", RGB(255, 0, 0), false},
		{" 1 2 3 4 ", Color{1, 2, 3, 4}, false},
		{"#08246b", RGB(8, 36, 107), false},
		{"1 2", Color{}, true},
		{"1 2 300", Color{}, true},
		{"#zz0000", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

// TestColorOver verifies alpha compositing onto a background
func TestColorOver(t *testing.T) {
	white := RGB(255, 255, 255)
	if got := RGB(10, 20, 30).Over(white); got != RGB(10, 20, 30) {
		t.Errorf("expected opaque color unchanged, got %v", got)
	}
	if got := RGB(0, 0, 0).WithAlpha(0).Over(white); got != white {
		t.Errorf("expected transparent color to leave the background, got %v", got)
	}
	if got := RGB(8, 36, 107).Hex(); got != "#08246b" {
		t.Errorf("expected #08246b, got %s", got)
	}
}

// TestParseFont verifies typeface, style words and size
func TestParseFont(t *testing.T) {
	f, err := ParseFont("Courier, Bold Italic 12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Typeface != "Courier" || !f.Bold || !f.Italic || f.Underline || f.Size != 12 {
		t.Errorf("unexpected font %+v", f)
	}
	if f.String() != "Courier, Bold Italic 12" {
		t.Errorf("expected round trip, got %q", f.String())
	}

	f, err = f.WithStyle("Underline")
	if err != nil || f.Bold || !f.Underline {
		t.Errorf("expected style replaced, got %+v (%v)", f, err)
	}

	for _, bad := range []string{"", "Sans,", "Sans, Bold", "Sans, Wavy 10"} {
		if _, err := ParseFont(bad); err == nil {
			t.Errorf("ParseFont(%q): expected error", bad)
		}
	}
}

// TestParsePadding verifies the HxV form
func TestParsePadding(t *testing.T) {
	p, err := ParsePadding("3x1")
	if err != nil || p != (Padding{H: 3, V: 1}) {
		t.Errorf("expected 3x1, got %v (%v)", p, err)
	}
	if p.String() != "3x1" {
		t.Errorf("expected 3x1, got %s", p.String())
	}
	if _, err := ParsePadding("3"); err == nil {
		t.Error("expected error for missing separator")
	}
}

// TestParseEnums verifies the token parsers used by the attribute layer
func TestParseEnums(t *testing.T) {
	if m, err := ParseToggleMode("3state"); err != nil || m != ToggleThreeState {
		t.Errorf("expected 3STATE, got %v (%v)", m, err)
	}
	if m, err := ParseToggleMode("yes"); err != nil || m != ToggleTwoState {
		t.Errorf("expected YES, got %v (%v)", m, err)
	}
	if _, err := ParseMarkMode("some"); err == nil {
		t.Error("expected error for unknown mark mode")
	}
	if s, err := ParseState("expanded"); err != nil || s != Expanded {
		t.Errorf("expected EXPANDED, got %v (%v)", s, err)
	}
	if v, err := ParseToggle("notdef"); err != nil || v != ToggleNotDef {
		t.Errorf("expected NOTDEF, got %v (%v)", v, err)
	}
	if b, err := ParseBool("On"); err != nil || !b {
		t.Errorf("expected true, got %v (%v)", b, err)
	}
}
