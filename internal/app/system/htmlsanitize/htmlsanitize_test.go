package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
)

func TestSanitize_PlainTextUnchanged(t *testing.T) {
	in := "Robotics Club builds and races autonomous rovers."
	if got := htmlsanitize.Sanitize(in); got != in {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_KeepsBasicFormatting(t *testing.T) {
	in := "<p><strong>Weekly meets:</strong> Fridays, <em>Lab 3</em></p>"
	if got := htmlsanitize.Sanitize(in); got != in {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	in := "<p>About us</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(in); got != "<p>About us</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	in := `<a href="javascript:alert('xss')">Join</a>`
	got := htmlsanitize.Sanitize(in)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
