package driver

import "strings"

// sanitizeSegment lowercases a package name and replaces characters that
// cannot appear in a directory name.
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-', r == '.', r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// SanitizeName exposes the package name normalisation used by manifests.
func SanitizeName(name string) string {
	return sanitizeSegment(name)
}
