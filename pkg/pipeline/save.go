package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
)

// illegalChars are stripped from deck titles to form file names.
const illegalChars = `\/:*?"<>|`

// SanitizeTitle removes characters that are not allowed in file names.
func SanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalChars, r) {
			return -1
		}
		return r
	}, title)
}

// FileName returns the deck file name for title. A title with nothing left
// after sanitizing uses fallback.
func FileName(title, fallback string) string {
	name := strings.TrimSpace(SanitizeTitle(title))
	if name == "" {
		name = SanitizeTitle(fallback)
	}
	return name + ".pptx"
}

// Save writes deck to dir under the file name derived from title and
// returns its path. An existing deck of the same name is replaced.
func Save(deck *ooxml.Deck, dir, title, fallback string) (string, error) {
	path := filepath.Join(dir, FileName(title, fallback))
	if err := deck.Save(path); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutputWrite, err, "write deck %s", path)
	}
	return path, nil
}
