package theme

import "testing"

func withDetector(t *testing.T, detector func() bool) {
	original := detectDarkBackground
	detectDarkBackground = detector
	resetAutoTheme()
	t.Cleanup(func() {
		detectDarkBackground = original
		resetAutoTheme()
	})
}

func TestFromNameAutoUsesLightThemeWhenBackgroundIsLight(t *testing.T) {
	t.Setenv("CRITTERS_NO_COLOR", "0")
	withDetector(t, func() bool { return false })

	if got := FromName("auto"); got.Base != Light.Base {
		t.Fatalf("expected light theme for light background, got base %s", got.Base)
	}
}

func TestFromNameAutoUsesDarkThemeWhenBackgroundIsDark(t *testing.T) {
	t.Setenv("CRITTERS_NO_COLOR", "0")
	withDetector(t, func() bool { return true })

	if got := FromName(""); got.Base != Dark.Base {
		t.Fatalf("expected dark theme for dark background, got base %s", got.Base)
	}
}

func TestFromNameExplicit(t *testing.T) {
	t.Setenv("CRITTERS_NO_COLOR", "0")
	withDetector(t, func() bool { return true })

	tests := map[string]string{
		"light": NameLight,
		"latte": NameLight,
		"dark":  NameDark,
		"Mocha": NameDark,
		"plain": NamePlain,
	}
	for in, want := range tests {
		if got := FromName(in).Name; got != want {
			t.Errorf("FromName(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv("CRITTERS_NO_COLOR", "")
	t.Setenv("NO_COLOR", "1")
	if !NoColorEnabled() {
		t.Fatal("NO_COLOR should disable colors")
	}
	if got := FromName("dark"); got.Name != NamePlain {
		t.Errorf("expected plain theme with NO_COLOR, got %s", got.Name)
	}

	t.Setenv("CRITTERS_NO_COLOR", "off")
	if NoColorEnabled() {
		t.Error("CRITTERS_NO_COLOR=off should force colors on")
	}
}

func TestToggle(t *testing.T) {
	if Toggle(Dark).Name != NameLight || Toggle(Light).Name != NameDark {
		t.Error("toggle should swap light and dark")
	}
	if Toggle(Plain).Name != NamePlain {
		t.Error("plain should stay plain")
	}
}

func TestDetectorPanicFallsBackToDark(t *testing.T) {
	t.Setenv("CRITTERS_NO_COLOR", "0")
	withDetector(t, func() bool { panic("no tty") })

	if got := FromName("auto"); got.Name != NameDark {
		t.Errorf("expected dark fallback, got %s", got.Name)
	}
}
