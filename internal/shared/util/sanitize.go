package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

const maxBaseNameRunes = 80

// ErrInvalidFileName is returned when nothing usable remains of a file name.
var ErrInvalidFileName = errors.New("invalid file name")

// SafeBaseName reduces a user supplied file name to a storage-safe stem: directory
// components and the extension are dropped, runes outside letters, digits, '-' and '_'
// become '_', and the result is capped in length. Returns ErrInvalidFileName if
// nothing but separators remain.
func SafeBaseName(name string) (string, error) {
	base := strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base = filepath.Base(base)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	count := 0
	lastUnderscore := false
	for _, r := range base {
		if count >= maxBaseNameRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			lastUnderscore = false
			count++
			continue
		}
		if lastUnderscore {
			continue
		}
		b.WriteRune('_')
		lastUnderscore = true
		count++
	}

	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "", ErrInvalidFileName
	}
	return out, nil
}
