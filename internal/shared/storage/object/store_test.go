package object

import (
	"errors"
	"testing"
)

func TestCleanKey(t *testing.T) {
	got, err := CleanKey("abc/./idea_analysis.txt")
	if err != nil {
		t.Fatalf("CleanKey: %v", err)
	}
	if got != "abc/idea_analysis.txt" {
		t.Fatalf("unexpected key %q", got)
	}

	for _, bad := range []string{"", "/etc/passwd", "../x", "a/../../x", `..\x`, "."} {
		if _, err := CleanKey(bad); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("CleanKey(%q): expected ErrInvalidKey, got %v", bad, err)
		}
	}
}
