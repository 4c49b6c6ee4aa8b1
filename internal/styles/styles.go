package styles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Settings holds the visual options a page can override. Sizes are numbers:
// title and subtitle sizes in rem, container width and border radius in px;
// units are attached when the values are projected to CSS. Zero and "" mean
// unset; EnableAnimations uses a pointer so an explicit false survives
// merging.
type Settings struct {
	TitleSize        float64 `json:"titleSize,omitempty"`
	SubtitleSize     float64 `json:"subtitleSize,omitempty"`
	PrimaryColor     string  `json:"primaryColor,omitempty"`
	SecondaryColor   string  `json:"secondaryColor,omitempty"`
	AccentColor      string  `json:"accentColor,omitempty"`
	TextColor        string  `json:"textColor,omitempty"`
	BodyFont         string  `json:"bodyFont,omitempty"`
	HeadingFont      string  `json:"headingFont,omitempty"`
	ContainerWidth   int     `json:"containerWidth,omitempty"`
	BorderRadius     int     `json:"borderRadius,omitempty"`
	ButtonStyle      string  `json:"buttonStyle,omitempty"`
	EnableAnimations *bool   `json:"enableAnimations,omitempty"`
}

// Defaults returns the site-wide baseline used when neither the global
// settings document nor the page overrides a value.
func Defaults() Settings {
	animate := true
	return Settings{
		TitleSize:        2.5,
		SubtitleSize:     1.25,
		PrimaryColor:     "#1a1a2e",
		SecondaryColor:   "#16213e",
		AccentColor:      "#0f3460",
		TextColor:        "#222222",
		BodyFont:         "'Inter', sans-serif",
		HeadingFont:      "'Inter', sans-serif",
		ContainerWidth:   1100,
		BorderRadius:     8,
		ButtonStyle:      "solid",
		EnableAnimations: &animate,
	}
}

// Merge overlays the page settings on top of the base. Set fields on the
// overlay win; unset fields keep the base value. Neither input is mutated.
func Merge(base, overlay Settings) Settings {
	merged := base
	if overlay.TitleSize != 0 {
		merged.TitleSize = overlay.TitleSize
	}
	if overlay.SubtitleSize != 0 {
		merged.SubtitleSize = overlay.SubtitleSize
	}
	if overlay.PrimaryColor != "" {
		merged.PrimaryColor = overlay.PrimaryColor
	}
	if overlay.SecondaryColor != "" {
		merged.SecondaryColor = overlay.SecondaryColor
	}
	if overlay.AccentColor != "" {
		merged.AccentColor = overlay.AccentColor
	}
	if overlay.TextColor != "" {
		merged.TextColor = overlay.TextColor
	}
	if overlay.BodyFont != "" {
		merged.BodyFont = overlay.BodyFont
	}
	if overlay.HeadingFont != "" {
		merged.HeadingFont = overlay.HeadingFont
	}
	if overlay.ContainerWidth != 0 {
		merged.ContainerWidth = overlay.ContainerWidth
	}
	if overlay.BorderRadius != 0 {
		merged.BorderRadius = overlay.BorderRadius
	}
	if overlay.ButtonStyle != "" {
		merged.ButtonStyle = overlay.ButtonStyle
	}
	if overlay.EnableAnimations != nil {
		value := *overlay.EnableAnimations
		merged.EnableAnimations = &value
	}
	return merged
}

// CSSVariables projects the settings onto CSS custom properties, keyed by
// variable name with the given prefix ("--site" yields "--site-title-size").
// Numeric sizes pick up their units here.
func (s Settings) CSSVariables(prefix string) map[string]string {
	if prefix == "" {
		prefix = "--site"
	}
	vars := map[string]string{}
	put := func(name, value string) {
		if value != "" {
			vars[prefix+"-"+name] = value
		}
	}
	put("title-size", rem(s.TitleSize))
	put("subtitle-size", rem(s.SubtitleSize))
	put("primary-color", s.PrimaryColor)
	put("secondary-color", s.SecondaryColor)
	put("accent-color", s.AccentColor)
	put("text-color", s.TextColor)
	put("body-font", s.BodyFont)
	put("heading-font", s.HeadingFont)
	put("container-width", px(s.ContainerWidth))
	put("border-radius", px(s.BorderRadius))
	if s.EnableAnimations != nil && !*s.EnableAnimations {
		vars[prefix+"-transition"] = "none"
	}
	return vars
}

// InlineStyle renders the custom properties as a deterministic style
// attribute value.
func (s Settings) InlineStyle(prefix string) string {
	vars := s.CSSVariables(prefix)
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s:%s;", name, vars[name])
	}
	return b.String()
}

// FromMap decodes settings stored as a generic JSON map. Unknown keys are
// ignored so documents written by newer revisions still load.
func FromMap(m map[string]any) Settings {
	var s Settings
	if m == nil {
		return s
	}
	str := func(key string) string {
		v, _ := m[key].(string)
		return v
	}
	s.TitleSize = numberAt(m, "titleSize")
	s.SubtitleSize = numberAt(m, "subtitleSize")
	s.PrimaryColor = str("primaryColor")
	s.SecondaryColor = str("secondaryColor")
	s.AccentColor = str("accentColor")
	s.TextColor = str("textColor")
	s.BodyFont = str("bodyFont")
	s.HeadingFont = str("headingFont")
	s.ContainerWidth = int(numberAt(m, "containerWidth"))
	s.BorderRadius = int(numberAt(m, "borderRadius"))
	s.ButtonStyle = str("buttonStyle")
	if v, ok := m["enableAnimations"].(bool); ok {
		s.EnableAnimations = &v
	}
	return s
}

// numberAt reads a JSON number. Documents decoded from JSON carry float64,
// in-process maps may carry int.
func numberAt(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func rem(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "rem"
}

func px(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v) + "px"
}
