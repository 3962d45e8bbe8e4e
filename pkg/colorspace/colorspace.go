// Package colorspace implements the color math behind palette generation:
// hex/RGB conversion, random color drawing, clamped darkening, and
// extraction of hex codes from free-form model output.
package colorspace

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"paletteai/pkg/domain"
)

var hexPattern = regexp.MustCompile(`#[0-9a-fA-F]{6}`)

const hexDigits = "0123456789abcdef"

// Shade offsets applied to every channel when deriving the two shade rows.
const (
	shadeOffsetDark   = -60
	shadeOffsetDarker = -100
)

// HexToRGB parses a "#rrggbb" string into an RGB triple.
func HexToRGB(hex string) ([3]int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(trimmed) != 6 {
		return [3]int{}, fmt.Errorf("invalid hex color %q", hex)
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		channel, err := strconv.ParseUint(trimmed[i*2:i*2+2], 16, 8)
		if err != nil {
			return [3]int{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		rgb[i] = int(channel)
	}
	return rgb, nil
}

// RGBToHex formats an RGB triple as a lowercase "#rrggbb" string.
// Channels are clamped to [0,255].
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(r), clampChannel(g), clampChannel(b))
}

// FromHex builds a Color whose hex and RGB fields agree.
// The hex string is normalized to lowercase.
func FromHex(hex string) (domain.Color, error) {
	rgb, err := HexToRGB(hex)
	if err != nil {
		return domain.Color{}, err
	}
	return domain.Color{Hex: strings.ToLower(strings.TrimSpace(hex)), RGB: rgb}, nil
}

// Random draws n colors, each assembled from six independent random hex
// digits. An unparseable draw is retried for that color alone; with the
// fixed digit alphabet this is defensive only.
func Random(n int) []domain.Color {
	colors := make([]domain.Color, 0, n)
	for len(colors) < n {
		var sb strings.Builder
		sb.WriteByte('#')
		for j := 0; j < 6; j++ {
			sb.WriteByte(hexDigits[rand.IntN(16)])
		}
		color, err := FromHex(sb.String())
		if err != nil {
			continue
		}
		colors = append(colors, color)
	}
	return colors
}

// Darken shifts every channel by amount (negative darkens), clamped to [0,255].
func Darken(c domain.Color, amount int) domain.Color {
	r := clampChannel(c.RGB[0] + amount)
	g := clampChannel(c.RGB[1] + amount)
	b := clampChannel(c.RGB[2] + amount)
	return domain.Color{Hex: RGBToHex(r, g, b), RGB: [3]int{r, g, b}}
}

// ShadeGrid derives two darkened rows from the base colors, preserving
// order. Row 0 darkens by 60 per channel, row 1 by 100. Pure: the same
// bases always produce the same grid. Empty input yields two empty rows.
func ShadeGrid(colors []domain.Color) [][]domain.Color {
	dark := make([]domain.Color, 0, len(colors))
	darker := make([]domain.Color, 0, len(colors))
	for _, c := range colors {
		dark = append(dark, Darken(c, shadeOffsetDark))
		darker = append(darker, Darken(c, shadeOffsetDarker))
	}
	return [][]domain.Color{dark, darker}
}

// ExtractHex pulls the first n distinct hex codes out of free-form text.
// Matching is case-insensitive and results are normalized to lowercase.
// Returns false when the text holds fewer than n distinct codes.
func ExtractHex(text string, n int) ([]domain.Color, bool) {
	matches := hexPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, n)
	colors := make([]domain.Color, 0, n)
	for _, match := range matches {
		hex := strings.ToLower(match)
		if _, dup := seen[hex]; dup {
			continue
		}
		color, err := FromHex(hex)
		if err != nil {
			continue
		}
		seen[hex] = struct{}{}
		colors = append(colors, color)
		if len(colors) == n {
			return colors, true
		}
	}
	return colors, len(colors) >= n
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
