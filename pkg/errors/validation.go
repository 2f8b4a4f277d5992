package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateDeckName validates a deck file name requested through the API or
// the static download route. It must be a plain basename ending in .pptx.
func ValidateDeckName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "deck name cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "deck name too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "deck name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "deck name cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "deck name cannot be a hidden file")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pptx") {
		return New(ErrCodeInvalidPath, "deck name must end in .pptx")
	}
	return nil
}

// ValidateImageURL validates an image reference against the accepted
// schemes. An empty schemes list accepts http and https.
func ValidateImageURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	scheme := strings.ToLower(u.Scheme)
	for _, s := range schemes {
		if scheme == s {
			if u.Host == "" {
				return New(ErrCodeInvalidURL, "URL has no host")
			}
			return nil
		}
	}
	return New(ErrCodeInvalidURL, "unsupported URL scheme %q", u.Scheme)
}
