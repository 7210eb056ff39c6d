package routing

import (
	"path/filepath"
	"strings"
)

// MatchThreshold is the similarity a folder must exceed to be matched to a
// client.
const MatchThreshold = 0.6

// ClientMatch is the art folder chosen for one client.
type ClientMatch struct {
	Folder   string  `json:"folder"`
	Ratio    float64 `json:"ratio"`
	FullPath string  `json:"full_path"`
}

// MatchClients pairs each client with its most similar folder name,
// comparing case-insensitively. Clients listed in existing are skipped. A
// folder is kept only when its ratio exceeds MatchThreshold; on equal
// ratios the folder listed first wins.
func MatchClients(clients, folders []string, existing map[string]string, artRoot string) map[string]ClientMatch {
	matches := map[string]ClientMatch{}
	for _, client := range clients {
		if _, ok := existing[client]; ok {
			continue
		}

		lc := strings.ToLower(client)
		best, bestRatio := "", 0.0
		for _, folder := range folders {
			ratio := Similarity(lc, strings.ToLower(folder))
			if ratio > bestRatio && ratio > MatchThreshold {
				best, bestRatio = folder, ratio
			}
		}
		if best == "" {
			continue
		}
		matches[client] = ClientMatch{
			Folder:   best,
			Ratio:    bestRatio,
			FullPath: filepath.Join(artRoot, best),
		}
	}
	return matches
}

// AutoMatchClients runs MatchClients against the engine settings: existing
// art folder mappings are skipped and paths are joined onto art_root_path.
func (e *Engine) AutoMatchClients(clients, folders []string) map[string]ClientMatch {
	return MatchClients(clients, folders, e.settings.ClientArtFolders, e.settings.ArtRootPath)
}
