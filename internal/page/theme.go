package page

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Theme is one of the fixed presentational variants a page can be rendered with.
type Theme string

const (
	ThemeLight     Theme = "light"
	ThemeDark      Theme = "dark"
	ThemeMint      Theme = "mint"
	ThemeCorporate Theme = "corporate"
	ThemeModern    Theme = "modern"

	DefaultTheme = ThemeLight
)

// ErrUnknownTheme is returned by ParseTheme for values outside the fixed set.
var ErrUnknownTheme = eris.New("unknown theme")

// Themes lists every theme in picker order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeMint, ThemeCorporate, ThemeModern}
}

// ParseTheme maps raw input onto a Theme. Empty input yields DefaultTheme.
func ParseTheme(raw string) (Theme, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultTheme, nil
	}

	theme := Theme(value)
	if !theme.Valid() {
		return "", eris.Wrapf(ErrUnknownTheme, "parsing theme %q", raw)
	}
	return theme, nil
}

// Valid reports whether t is part of the fixed set.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeMint, ThemeCorporate, ThemeModern:
		return true
	default:
		return false
	}
}

// ThemeStyle carries the colours a theme applies to the rendered page.
type ThemeStyle struct {
	Background string
	Text       string
	Accent     string
	Border     string
}

// Style returns the colour palette for t. Unknown values fall back to the light palette.
func (t Theme) Style() ThemeStyle {
	switch t {
	case ThemeDark:
		return ThemeStyle{Background: "#111827", Text: "#f3f4f6", Accent: "#60a5fa", Border: "#374151"}
	case ThemeMint:
		return ThemeStyle{Background: "#f0fdf4", Text: "#14532d", Accent: "#15803d", Border: "#bbf7d0"}
	case ThemeCorporate:
		return ThemeStyle{Background: "#f8fafc", Text: "#0f172a", Accent: "#334155", Border: "#cbd5e1"}
	case ThemeModern:
		return ThemeStyle{Background: "linear-gradient(135deg, #faf5ff, #fdf2f8)", Text: "#111827", Accent: "#7e22ce", Border: "#e9d5ff"}
	case ThemeLight:
		fallthrough
	default:
		return ThemeStyle{Background: "#ffffff", Text: "#111827", Accent: "#2563eb", Border: "#e5e7eb"}
	}
}

// Label is the human readable name shown in the theme picker.
func (t Theme) Label() string {
	switch t {
	case ThemeDark:
		return "Dark"
	case ThemeMint:
		return "Mint"
	case ThemeCorporate:
		return "Corporate"
	case ThemeModern:
		return "Modern"
	case ThemeLight:
		fallthrough
	default:
		return "Light"
	}
}

func themeValues() []any {
	themes := Themes()
	values := make([]any, 0, len(themes))
	for _, theme := range themes {
		values = append(values, theme)
	}
	return values
}
