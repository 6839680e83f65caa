package sections

import (
	"strings"
	"testing"
)

func TestNormalizeIcon(t *testing.T) {
	cases := map[string]string{
		"":           DefaultIcon,
		"STAR":       "star",
		" map_pin ":  "map-pin",
		"lock":       "shield",
		"lightning":  "bolt",
		"user":       "users",
		"rocketship": "rocket",
		"unicorn":    DefaultIcon,
	}
	for input, want := range cases {
		if got := NormalizeIcon(input); got != want {
			t.Errorf("NormalizeIcon(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRegisterIconSanitizesMarkup(t *testing.T) {
	svg := `<svg viewBox="0 0 24 24"><script>alert(1)</script><path d="M1 1L2 2" onclick="x()"></path></svg>`
	if err := RegisterIcon("spark-test", svg); err != nil {
		t.Fatalf("register icon: %v", err)
	}

	out := IconSVG("spark-test")
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") {
		t.Fatalf("icon markup not sanitised: %s", out)
	}
	if !strings.Contains(out, `d="M1 1L2 2"`) {
		t.Fatalf("expected path to survive: %s", out)
	}
	if err := RegisterIcon("empty", "<script></script>"); err == nil {
		t.Fatalf("expected error for icon without usable markup")
	}
}
