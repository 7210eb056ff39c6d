package routing

import (
	"strings"

	"github.com/3leaps/gohotfolder/pkg/job"
)

// mediaKeywords is scanned in order; the first keyword found sets the group.
var mediaKeywords = []struct {
	keyword string
	group   string
}{
	{"vinyl", "Vinyl"},
	{"banner", "Banner"},
	{"scrim", "Banner"},
	{"mesh", "Banner"},
	{"paper", "Paper"},
	{"canvas", "Paper"},
}

// DetectFolderAttributes guesses routing criteria from a folder name with a
// case-insensitive keyword scan. The result may be empty.
func DetectFolderAttributes(folderName string) map[string]string {
	name := strings.ToLower(folderName)
	has := func(s string) bool { return strings.Contains(name, s) }
	detected := map[string]string{}

	if has("bleed") {
		detected[job.CriterionBleed] = "Bleed"
	}
	if has("90") || has("rotate") {
		detected[job.CriterionRotation] = "90 CW"
	}

	switch {
	case has("icut"):
		detected[job.CriterionRegistration] = "iCut"
	case has("graphtec"):
		detected[job.CriterionRegistration] = "Graphtec"
	}

	switch {
	case has("matte"):
		detected[job.CriterionFinish] = "Matte"
	case has("glossy"):
		detected[job.CriterionFinish] = "Glossy"
	}

	if has("grommet") {
		switch {
		case has("corner"):
			detected[job.CriterionGrommets] = "Corners"
		case has("top"):
			detected[job.CriterionGrommets] = "Top"
		case has("bottom"):
			detected[job.CriterionGrommets] = "Bottom"
		case has("side"):
			detected[job.CriterionGrommets] = "Sides"
		default:
			detected[job.CriterionGrommets] = "All"
		}
	}

	if has("pole") || has("pocket") {
		switch {
		case has("top") && has("bottom"):
			detected[job.CriterionPolePockets] = "Top & Bottom"
		case has("top"):
			detected[job.CriterionPolePockets] = "Top"
		case has("bottom"):
			detected[job.CriterionPolePockets] = "Bottom"
		case has("side"):
			detected[job.CriterionPolePockets] = "Sides"
		default:
			detected[job.CriterionPolePockets] = "Top & Bottom"
		}
	}

	if has("mirror") {
		detected[job.CriterionMirror] = "Yes"
	}

	switch {
	case has("flatbed"):
		detected[job.CriterionPrintMode] = job.PrintModeFlatbed
	case has("roll"):
		detected[job.CriterionPrintMode] = job.PrintModeRoll
	}

	if has("rush") {
		detected[job.CriterionJobType] = job.TypeRush
	}

	for _, m := range mediaKeywords {
		if has(m.keyword) {
			detected[job.CriterionMediaGroup] = m.group
			break
		}
	}

	return detected
}
