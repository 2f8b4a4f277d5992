package imaging

import (
	"github.com/matzehuels/slidesmith/pkg/errors"
)

// IsValidRef reports whether ref is an absolute URL whose scheme is one of
// schemes (http and https when none are given). Local paths, data URIs and
// other schemes are rejected.
func IsValidRef(ref string, schemes ...string) bool {
	return errors.ValidateImageURL(ref, schemes...) == nil
}
