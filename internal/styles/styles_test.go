package styles

import (
	"strings"
	"testing"
)

func TestMergePageOverridesWin(t *testing.T) {
	off := false
	merged := Merge(Defaults(), Settings{
		PrimaryColor:     "#ff0000",
		EnableAnimations: &off,
	})

	if merged.PrimaryColor != "#ff0000" {
		t.Fatalf("expected overlay color to win, got %q", merged.PrimaryColor)
	}
	if merged.TitleSize != Defaults().TitleSize {
		t.Fatalf("expected base title size to survive, got %v", merged.TitleSize)
	}
	if merged.EnableAnimations == nil || *merged.EnableAnimations {
		t.Fatalf("expected explicit false to survive merge")
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := Defaults()
	overlay := Settings{AccentColor: "#00ff00"}

	Merge(base, overlay)

	if base.AccentColor != Defaults().AccentColor {
		t.Fatalf("base mutated: %q", base.AccentColor)
	}
}

func TestCSSVariablesSkipUnset(t *testing.T) {
	vars := Settings{PrimaryColor: "#123456"}.CSSVariables("--site")

	if vars["--site-primary-color"] != "#123456" {
		t.Fatalf("unexpected vars: %v", vars)
	}
	if _, ok := vars["--site-title-size"]; ok {
		t.Fatalf("unset field should not emit a variable")
	}
}

func TestCSSVariablesAttachUnits(t *testing.T) {
	vars := Settings{
		TitleSize:      2.5,
		SubtitleSize:   1.25,
		ContainerWidth: 1100,
		BorderRadius:   8,
	}.CSSVariables("--site")

	for name, want := range map[string]string{
		"--site-title-size":      "2.5rem",
		"--site-subtitle-size":   "1.25rem",
		"--site-container-width": "1100px",
		"--site-border-radius":   "8px",
	} {
		if vars[name] != want {
			t.Fatalf("%s: expected %q, got %q", name, want, vars[name])
		}
	}
}

func TestInlineStyleDeterministic(t *testing.T) {
	s := Settings{PrimaryColor: "#111111", TextColor: "#222222"}

	style := s.InlineStyle("--site")
	if style != "--site-primary-color:#111111;--site-text-color:#222222;" {
		t.Fatalf("unexpected inline style: %q", style)
	}
	if style != s.InlineStyle("--site") {
		t.Fatalf("inline style not deterministic")
	}
}

func TestFromMapIgnoresUnknownKeys(t *testing.T) {
	s := FromMap(map[string]any{
		"primaryColor":     "#abcdef",
		"titleSize":        3.0,
		"containerWidth":   float64(960),
		"enableAnimations": false,
		"futureOption":     42,
	})

	if s.PrimaryColor != "#abcdef" {
		t.Fatalf("unexpected primary color: %q", s.PrimaryColor)
	}
	if s.TitleSize != 3 || s.ContainerWidth != 960 {
		t.Fatalf("numeric fields not decoded: %+v", s)
	}
	if s.EnableAnimations == nil || *s.EnableAnimations {
		t.Fatalf("expected enableAnimations false")
	}
	if strings.Contains(s.InlineStyle(""), "future") {
		t.Fatalf("unknown key leaked into output")
	}
}
