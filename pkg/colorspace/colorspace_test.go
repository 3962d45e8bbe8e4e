package colorspace

import (
	"testing"

	"paletteai/pkg/domain"
)

func TestHexToRGBRoundTrip(t *testing.T) {
	rgb, err := HexToRGB("#c89664")
	if err != nil {
		t.Fatalf("parse hex: %v", err)
	}
	if rgb != [3]int{200, 150, 100} {
		t.Fatalf("unexpected rgb: %v", rgb)
	}
	if hex := RGBToHex(200, 150, 100); hex != "#c89664" {
		t.Fatalf("unexpected hex: %s", hex)
	}
}

func TestHexToRGBRejectsMalformed(t *testing.T) {
	for _, hex := range []string{"", "#fff", "#gggggg", "123456789", "#12345"} {
		if _, err := HexToRGB(hex); err == nil {
			t.Fatalf("expected error for %q", hex)
		}
	}
}

func TestFromHexNormalizesCase(t *testing.T) {
	color, err := FromHex("#AABBCC")
	if err != nil {
		t.Fatalf("from hex: %v", err)
	}
	if color.Hex != "#aabbcc" {
		t.Fatalf("hex not lowercased: %s", color.Hex)
	}
	if color.RGB != [3]int{170, 187, 204} {
		t.Fatalf("unexpected rgb: %v", color.RGB)
	}
}

func TestRandomShape(t *testing.T) {
	colors := Random(5)
	if len(colors) != 5 {
		t.Fatalf("expected 5 colors, got %d", len(colors))
	}
	for _, c := range colors {
		if len(c.Hex) != 7 || c.Hex[0] != '#' {
			t.Fatalf("malformed hex %q", c.Hex)
		}
		rgb, err := HexToRGB(c.Hex)
		if err != nil {
			t.Fatalf("hex %q does not parse: %v", c.Hex, err)
		}
		if rgb != c.RGB {
			t.Fatalf("hex %q maps to %v, stored %v", c.Hex, rgb, c.RGB)
		}
	}
}

func TestDarkenClamps(t *testing.T) {
	base := domain.Color{Hex: "#c89664", RGB: [3]int{200, 150, 100}}
	dark := Darken(base, -60)
	if dark.RGB != [3]int{140, 90, 40} {
		t.Fatalf("unexpected -60 shade: %v", dark.RGB)
	}
	darker := Darken(base, -100)
	if darker.RGB != [3]int{100, 50, 0} {
		t.Fatalf("unexpected -100 shade: %v", darker.RGB)
	}
	nearBlack := Darken(domain.Color{Hex: "#0a0a0a", RGB: [3]int{10, 10, 10}}, -100)
	if nearBlack.RGB != [3]int{0, 0, 0} {
		t.Fatalf("shade not clamped at zero: %v", nearBlack.RGB)
	}
	if nearBlack.Hex != "#000000" {
		t.Fatalf("clamped hex mismatch: %s", nearBlack.Hex)
	}
}

func TestShadeGridDeterministic(t *testing.T) {
	bases := []domain.Color{
		{Hex: "#c89664", RGB: [3]int{200, 150, 100}},
		{Hex: "#0a0a0a", RGB: [3]int{10, 10, 10}},
	}
	grid := ShadeGrid(bases)
	if len(grid) != 2 {
		t.Fatalf("expected 2 shade rows, got %d", len(grid))
	}
	for row, shades := range grid {
		if len(shades) != len(bases) {
			t.Fatalf("row %d has %d shades, want %d", row, len(shades), len(bases))
		}
	}
	if grid[0][0].RGB != [3]int{140, 90, 40} || grid[1][0].RGB != [3]int{100, 50, 0} {
		t.Fatalf("unexpected shades for first base: %v / %v", grid[0][0].RGB, grid[1][0].RGB)
	}
	again := ShadeGrid(bases)
	for row := range grid {
		for i := range grid[row] {
			if grid[row][i] != again[row][i] {
				t.Fatalf("shade grid not deterministic at [%d][%d]", row, i)
			}
		}
	}
}

func TestShadeGridEmpty(t *testing.T) {
	grid := ShadeGrid(nil)
	if len(grid) != 2 || len(grid[0]) != 0 || len(grid[1]) != 0 {
		t.Fatalf("expected two empty rows, got %v", grid)
	}
}

func TestExtractHex(t *testing.T) {
	text := "Ocean palette: #1A2B3C deep water, #4d5e6f mist, #1a2b3c again, #778899 haze."
	colors, ok := ExtractHex(text, 3)
	if !ok {
		t.Fatalf("expected 3 distinct colors")
	}
	want := []string{"#1a2b3c", "#4d5e6f", "#778899"}
	for i, c := range colors {
		if c.Hex != want[i] {
			t.Fatalf("color %d = %s, want %s", i, c.Hex, want[i])
		}
	}
}

func TestExtractHexIncomplete(t *testing.T) {
	colors, ok := ExtractHex("only #aabbcc and #AABBCC here", 2)
	if ok {
		t.Fatalf("duplicate hex should not count twice, got %v", colors)
	}
	if len(colors) != 1 {
		t.Fatalf("expected 1 distinct color, got %d", len(colors))
	}
}
