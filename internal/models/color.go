package models

import (
	"fmt"
	"strings"
)

// Color is a display tag attached to habits and events.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorIndigo Color = "indigo"
	ColorTeal   Color = "teal"
)

var Colors = []Color{ColorBlue, ColorGreen, ColorPurple, ColorRed, ColorYellow, ColorPink, ColorIndigo, ColorTeal}

// ANSI returns the 256-color palette index used by the terminal UI.
func (c Color) ANSI() string {
	switch c {
	case ColorGreen:
		return "42"
	case ColorPurple:
		return "135"
	case ColorRed:
		return "196"
	case ColorYellow:
		return "220"
	case ColorPink:
		return "205"
	case ColorIndigo:
		return "62"
	case ColorTeal:
		return "37"
	default:
		return "33"
	}
}

func ParseColor(s string) (Color, error) {
	// accept the web palette form ("bg-blue-500") as well as the bare name
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(strings.TrimPrefix(name, "bg-"), "-500")
	for _, c := range Colors {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid color %q (expected one of %s)", s, joinNames(Colors))
}
