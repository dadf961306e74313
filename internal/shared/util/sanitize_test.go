package util

import (
	"errors"
	"testing"
)

func TestSafeBaseName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pitch.pdf", want: "pitch"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\me\deck v2.pptx`, want: "deck_v2"},
		{in: "My Idea (final).pptx", want: "My_Idea_final"},
		{in: "ბიზნეს-იდეა.pdf", want: "ბიზნეს-იდეა"},
		{in: "a..b.pdf", want: "a_b"},
	}
	for _, tc := range cases {
		got, err := SafeBaseName(tc.in)
		if err != nil {
			t.Fatalf("SafeBaseName(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SafeBaseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSafeBaseNameRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "../", ".pdf", "***.txt"} {
		if _, err := SafeBaseName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("SafeBaseName(%q): expected ErrInvalidFileName, got %v", in, err)
		}
	}
}

