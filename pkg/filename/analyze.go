package filename

import "strings"

// ComponentGuess is one underscore-separated part of an analyzed filename.
type ComponentGuess struct {
	Index int    `json:"index"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Analysis is the result of Analyze.
type Analysis struct {
	Filename       string           `json:"filename"`
	IsValid        bool             `json:"is_valid"`
	Issues         []string         `json:"issues"`
	Components     []ComponentGuess `json:"components"`
	EstimatedParts []string         `json:"estimated_parts"`
}

// Analyze validates name and guesses what each underscore-separated part is.
func Analyze(name string) Analysis {
	ok, issues := Validate(name)
	a := Analysis{
		Filename:       name,
		IsValid:        ok,
		Issues:         issues,
		Components:     []ComponentGuess{},
		EstimatedParts: []string{},
	}
	if name == "" {
		return a
	}

	parts := strings.Split(strings.ReplaceAll(name, Extension, ""), "_")
	a.EstimatedParts = parts
	for i, part := range parts {
		a.Components = append(a.Components, ComponentGuess{Index: i, Value: part, Type: guessType(part)})
	}
	return a
}

func guessType(part string) string {
	switch {
	case strings.HasPrefix(part, "QTY"):
		return Quantity
	case strings.Contains(part, "x") && len(strings.Split(part, "x")) == 2:
		return Size
	case part == "Glossy" || part == "Matte" || part == "Satin":
		return Finish
	case part == "Bleed" || part == "None":
		return Bleed
	case len(part) == 8 && strings.Contains(part, "-"):
		return Date
	case strings.HasPrefix(part, "TIT"):
		return JobNumber
	default:
		return "unknown"
	}
}
