package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("MATERIALHUB_LOG_FORMAT", "  text ")
	if got := Get("MATERIALHUB_LOG_FORMAT", "json"); got != "text" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	t.Setenv("MATERIALHUB_LOG_FORMAT", "   ")
	if got := Get("MATERIALHUB_LOG_FORMAT", "json"); got != "json" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}
