package biz

import "strings"

// Slugify derives the public URL identifier from a business name.
// The input is lower-cased, every run of characters outside [a-z0-9]
// collapses into a single hyphen, and leading/trailing hyphens are
// stripped. A name without any alphanumeric characters yields "".
func Slugify(name string) string {
	var b []byte
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, byte(r))
		case len(b) > 0 && b[len(b)-1] != '-':
			b = append(b, '-')
		}
	}
	return strings.TrimSuffix(string(b), "-")
}
