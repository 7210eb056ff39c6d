// Package match filters folder names with doublestar glob patterns.
package match

import "strings"

// Glob metacharacters that can be escaped with backslash in patterns.
const globEscapable = `*?[]{}\`

// NormalizePattern converts a user-provided glob pattern to canonical form.
//
// Backslashes that do not escape a glob metacharacter become forward
// slashes, so Windows users can write "Canon\Matte\**". Escapes for literal
// metacharacters (\*, \?, \[) are kept.
//
//	"Canon/**"        → "Canon/**"
//	"Canon\Matte\**"  → "Canon/Matte/**"
//	"Canon\**"        → "Canon\**"   (literal star, then star)
//	"Rush\*"          → "Rush\*"     (literal star)
func NormalizePattern(pattern string) string {
	if pattern == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(pattern))

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			result.WriteRune(r)
			continue
		}
		if i+1 < len(runes) && strings.ContainsRune(globEscapable, runes[i+1]) {
			result.WriteRune('\\')
			result.WriteRune(runes[i+1])
			i++
			continue
		}
		result.WriteRune('/')
	}
	return result.String()
}

// IsHidden reports whether any slash-separated segment starts with a dot.
func IsHidden(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if seg != "" && strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
