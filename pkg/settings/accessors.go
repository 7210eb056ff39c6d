package settings

import (
	"fmt"
	"sort"

	"github.com/3leaps/gohotfolder/pkg/job"
	"github.com/3leaps/gohotfolder/pkg/rule"
)

// PrinterFolders returns the configured printer folder names in sorted order.
func (s *Settings) PrinterFolders() []string {
	folders := make([]string, 0, len(s.Printers))
	for f := range s.Printers {
		folders = append(folders, f)
	}
	sort.Strings(folders)
	return folders
}

// ActivePrinters returns the display names of active printers, ordered by
// folder name.
func (s *Settings) ActivePrinters() []string {
	var names []string
	for _, f := range s.PrinterFolders() {
		p := s.Printers[f]
		if p.Active {
			names = append(names, p.DisplayName)
		}
	}
	return names
}

// PrinterFolderName maps a display name back to its folder name. When no
// printer carries that display name, the display name itself is returned.
func (s *Settings) PrinterFolderName(displayName string) string {
	for _, f := range s.PrinterFolders() {
		if s.Printers[f].DisplayName == displayName {
			return f
		}
	}
	return displayName
}

// MediaConfigFor returns the printer's media override, or the shared media
// config when the printer has none.
func (s *Settings) MediaConfigFor(printer string) MediaConfig {
	if mc, ok := s.PrinterMediaConfig[printer]; ok {
		return mc
	}
	return s.MediaConfig
}

// RoutingRulesFor returns the rules stored for printer, in stored order.
func (s *Settings) RoutingRulesFor(printer string) []rule.Rule {
	return s.RoutingRules[printer]
}

// AddRoutingRule appends r to the printer's rule list.
func (s *Settings) AddRoutingRule(printer string, r rule.Rule) {
	r.Normalize()
	s.RoutingRules[printer] = append(s.RoutingRules[printer], r)
}

// RemoveRoutingRule deletes the rule at index from the printer's list.
func (s *Settings) RemoveRoutingRule(printer string, index int) (rule.Rule, error) {
	rules := s.RoutingRules[printer]
	if index < 0 || index >= len(rules) {
		return rule.Rule{}, fmt.Errorf("printer %q has no rule at index %d", printer, index)
	}
	removed := rules[index]
	s.RoutingRules[printer] = append(rules[:index:index], rules[index+1:]...)
	return removed, nil
}

// SetRoutingRules replaces the printer's rule list.
func (s *Settings) SetRoutingRules(printer string, rules []rule.Rule) {
	for i := range rules {
		rules[i].Normalize()
	}
	s.RoutingRules[printer] = rules
}

// FilenameComponents returns the filename layout.
func (s *Settings) FilenameComponents() (order []string, include map[string]bool, showPanel bool) {
	return s.Order, s.IncludeVars, s.ShowPanel
}

func (s *Settings) ArtCopyEnabled() bool {
	return s.EnableArtCopy
}

// AddClient appends name unless it is already listed. It reports whether the
// list changed.
func (s *Settings) AddClient(name string) bool {
	if name == "" || s.hasClient(name) {
		return false
	}
	s.ClientList = append(s.ClientList, name)
	return true
}

// RemoveClient drops name from the client list and its art folder mapping.
func (s *Settings) RemoveClient(name string) bool {
	for i, c := range s.ClientList {
		if c == name {
			s.ClientList = append(s.ClientList[:i:i], s.ClientList[i+1:]...)
			delete(s.ClientArtFolders, name)
			return true
		}
	}
	return false
}

func (s *Settings) hasClient(name string) bool {
	for _, c := range s.ClientList {
		if c == name {
			return true
		}
	}
	return false
}

// SetClientArtFolder maps client to an absolute art folder path.
func (s *Settings) SetClientArtFolder(client, path string) {
	s.ClientArtFolders[client] = path
}

func (s *Settings) RemoveClientArtFolder(client string) bool {
	if _, ok := s.ClientArtFolders[client]; !ok {
		return false
	}
	delete(s.ClientArtFolders, client)
	return true
}

// MergePrinters reconciles the printer table with folders found under the
// hotfolder root. Unknown folders are added as active roll printers. Printers
// whose folder is gone are reported as missing and removed only when prune
// is set.
func (s *Settings) MergePrinters(folders []string, prune bool) (added, missing []string) {
	seen := make(map[string]bool, len(folders))
	for _, f := range folders {
		seen[f] = true
		if _, ok := s.Printers[f]; ok {
			continue
		}
		s.Printers[f] = Printer{
			DisplayName: f,
			Types:       []string{job.PrintModeRoll},
			Active:      true,
		}
		added = append(added, f)
	}

	for _, f := range s.PrinterFolders() {
		if seen[f] {
			continue
		}
		missing = append(missing, f)
		if prune {
			delete(s.Printers, f)
		}
	}

	sort.Strings(added)
	return added, missing
}
