package layout

import (
	"reflect"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTierForWidth(t *testing.T) {
	tests := []struct {
		width int
		want  Tier
	}{
		{0, TierNarrow},
		{79, TierNarrow},
		{80, TierSplit},
		{119, TierSplit},
		{120, TierWide},
		{199, TierWide},
		{200, TierUltra},
		{400, TierUltra},
	}

	for _, tt := range tests {
		if got := TierForWidth(tt.width); got != tt.want {
			t.Errorf("TierForWidth(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		width, tiles, want int
	}{
		{60, 9, 1},
		{100, 9, 2},
		{150, 9, 3},
		{250, 9, 4},
		{250, 2, 2},
		{250, 0, 4},
	}
	for _, tt := range tests {
		if got := Columns(tt.width, tt.tiles); got != tt.want {
			t.Errorf("Columns(%d, %d) = %d, want %d", tt.width, tt.tiles, got, tt.want)
		}
	}
}

func TestCardWidth(t *testing.T) {
	if got := CardWidth(150, 3); got != 50 {
		t.Errorf("CardWidth(150,3) = %d", got)
	}
	if got := CardWidth(30, 3); got != 24 {
		t.Errorf("CardWidth should clamp to the minimum, got %d", got)
	}
	if got := CardWidth(90, 0); got != 90 {
		t.Errorf("CardWidth with zero cols = %d", got)
	}
}

func TestRows(t *testing.T) {
	got := Rows(5, 2)
	want := [][]int{{0, 1}, {2, 3}, {4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(5,2) = %v, want %v", got, want)
	}
	if Rows(0, 3) != nil {
		t.Error("Rows(0,3) should be empty")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"a longer sentence", 8, "a longe…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}

	wide := Truncate("日本語のテキスト", 7)
	if w := runewidth.StringWidth(wide); w > 7 {
		t.Errorf("wide truncation width %d > 7 (%q)", w, wide)
	}
}
