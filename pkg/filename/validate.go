package filename

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest filename, in characters, accepted without an issue.
const MaxLength = 200

const invalidChars = `<>:"/\|?*`

var reservedNames = func() map[string]bool {
	m := map[string]bool{"CON": true, "PRN": true, "AUX": true, "NUL": true}
	for i := 1; i <= 9; i++ {
		m[fmt.Sprintf("COM%d", i)] = true
		m[fmt.Sprintf("LPT%d", i)] = true
	}
	return m
}()

// Validate checks name for problems that break copies on common filesystems
// or indicate missing job data. Every issue found is returned.
func Validate(name string) (bool, []string) {
	if name == "" {
		return false, []string{"Filename is empty"}
	}

	var issues []string

	if name == Extension {
		issues = append(issues, "Filename contains only extension")
	}

	for _, c := range invalidChars {
		if strings.ContainsRune(name, c) {
			issues = append(issues, fmt.Sprintf("Contains invalid character: '%c'", c))
		}
	}

	if utf8.RuneCountInString(name) > MaxLength {
		issues = append(issues, fmt.Sprintf("Filename is too long (>%d characters)", MaxLength))
	}

	base := strings.ToUpper(strings.ReplaceAll(name, Extension, ""))
	if reservedNames[base] {
		issues = append(issues, fmt.Sprintf("'%s' is a reserved filename", base))
	}

	if strings.Contains(name, "__") {
		issues = append(issues, "Contains double underscores (possible missing data)")
	}

	return len(issues) == 0, issues
}

var sanitizeReplacer = strings.NewReplacer(
	" ", "_",
	"&", "and",
	"/", "-",
	`\`, "-",
	":", "-",
	"*", "",
	"?", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeComponent cleans a single component for use in a filename. The
// replacement table is stricter than the one Generate applies inline.
func SanitizeComponent(text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return ""
	}

	clean = sanitizeReplacer.Replace(clean)
	for strings.Contains(clean, "__") {
		clean = strings.ReplaceAll(clean, "__", "_")
	}
	return strings.Trim(clean, "_")
}
