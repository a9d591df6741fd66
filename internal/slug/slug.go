// Package slug normalizes the short codes used as notice categories and
// schedule event types.
package slug

import (
	"regexp"
	"strings"

	"github.com/tinoosan/fanbase/internal/errs"
)

const maxLen = 40

var reCode = regexp.MustCompile(`^[a-z0-9_]{2,40}$`)

// IsCode reports whether s is already a normalized code.
func IsCode(s string) bool {
	return reCode.MatchString(s)
}

// Slugify lowercases s, folds every run of other characters into one '_',
// caps the result at 40 runes and trims '_' from both ends.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	n := 0
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && n > 0 {
				b.WriteByte('_')
				n++
			}
			pending = false
			if n >= maxLen {
				break
			}
			b.WriteRune(r)
			n++
			continue
		}
		pending = true
	}
	return strings.Trim(b.String(), "_")
}

// Code normalizes raw into a code, substituting def when raw is blank.
// field names the input in the validation error.
func Code(field, raw, def string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	c := Slugify(raw)
	if !IsCode(c) {
		return "", errs.Validation("%s %q is not a valid code", field, raw)
	}
	return c, nil
}
