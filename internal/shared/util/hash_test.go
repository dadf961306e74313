package util

import "testing"

func TestHashKey(t *testing.T) {
	id := "session-12345"
	got := HashKey(id)
	if got != HashKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestShortHashIsPrefix(t *testing.T) {
	id := "session-12345"
	short := ShortHash(id)
	if len(short) != 16 {
		t.Fatalf("expected 16 characters, got %d", len(short))
	}
	if HashKey(id)[:16] != short {
		t.Fatalf("expected short hash to prefix full hash")
	}
}

func TestContentSHA256(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := ContentSHA256([]byte("abc")); got != want {
		t.Fatalf("unexpected digest %s", got)
	}
}
