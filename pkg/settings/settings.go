// Package settings holds the print shop configuration document: printers,
// media taxonomy, clients, art folder mappings, routing rules and filename
// layout.
//
// A Settings value is owned by the caller and passed explicitly to the
// components that read it. Persistence is handled by Store at process
// boundaries.
package settings

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/3leaps/gohotfolder/pkg/filename"
	"github.com/3leaps/gohotfolder/pkg/rule"
)

// Document keys.
const (
	KeyClientList         = "client_list"
	KeyPrinters           = "printers"
	KeyMediaConfig        = "media_config"
	KeyPrinterMediaConfig = "printer_media_config"
	KeyHotfolderRoot      = "hotfolder_root"
	KeyArtRootPath        = "art_root_path"
	KeyClientArtFolders   = "client_art_folders"
	KeyEnableArtCopy      = "enable_art_copy"
	KeyRoutingRules       = "routing_rules"
	KeyShowPanel          = "show_panel"
	KeyIncludeVars        = "include_vars"
	KeyOrder              = "order"
)

// Printer describes one printer folder under the hotfolder root.
type Printer struct {
	DisplayName string   `json:"display_name"`
	Types       []string `json:"types"`
	Active      bool     `json:"active"`
}

// UnmarshalJSON defaults Active to true when the key is absent.
func (p *Printer) UnmarshalJSON(data []byte) error {
	type plain Printer
	v := plain{Active: true}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Printer(v)
	return nil
}

// MediaConfig maps a media group to its media types.
type MediaConfig map[string][]string

// Groups returns the media group names in sorted order.
func (m MediaConfig) Groups() []string {
	groups := make([]string, 0, len(m))
	for g := range m {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Settings is the configuration document. Keys the document does not know
// are kept in extra and written back on save.
type Settings struct {
	ClientList         []string               `json:"client_list"`
	Printers           map[string]Printer     `json:"printers"`
	MediaConfig        MediaConfig            `json:"media_config"`
	PrinterMediaConfig map[string]MediaConfig `json:"printer_media_config"`
	HotfolderRoot      string                 `json:"hotfolder_root"`
	ArtRootPath        string                 `json:"art_root_path"`
	ClientArtFolders   map[string]string      `json:"client_art_folders"`
	EnableArtCopy      bool                   `json:"enable_art_copy"`
	RoutingRules       map[string][]rule.Rule `json:"routing_rules"`
	ShowPanel          bool                   `json:"show_panel"`
	IncludeVars        map[string]bool        `json:"include_vars"`
	Order              []string               `json:"order"`

	extra map[string]json.RawMessage
}

// Defaults returns a fresh document with the built-in defaults.
func Defaults() *Settings {
	include := make(map[string]bool, len(filename.Components))
	for _, c := range filename.Components {
		include[c] = true
	}
	order := make([]string, len(filename.Components))
	copy(order, filename.Components)

	return &Settings{
		ClientList: []string{"Client A", "Client B", "Client C"},
		Printers: map[string]Printer{
			"Canon":  {DisplayName: "Canon", Types: []string{"Roll", "Flatbed"}, Active: true},
			"S60":    {DisplayName: "S60", Types: []string{"Roll"}, Active: true},
			"S40":    {DisplayName: "S40", Types: []string{"Roll"}, Active: true},
			"Jetson": {DisplayName: "Jetson", Types: []string{"Flatbed"}, Active: true},
		},
		MediaConfig: MediaConfig{
			"Vinyl":  {"Glossy", "Matte", "Satin"},
			"Banner": {"Scrim", "Mesh", "Blockout"},
			"Paper":  {"Cardstock", "Photo Paper", "Canvas"},
		},
		PrinterMediaConfig: map[string]MediaConfig{},
		ClientArtFolders:   map[string]string{},
		EnableArtCopy:      true,
		RoutingRules:       map[string][]rule.Rule{},
		ShowPanel:          true,
		IncludeVars:        include,
		Order:              order,
		extra:              map[string]json.RawMessage{},
	}
}

// fieldPointers maps document keys to the typed fields of s.
func (s *Settings) fieldPointers() map[string]any {
	return map[string]any{
		KeyClientList:         &s.ClientList,
		KeyPrinters:           &s.Printers,
		KeyMediaConfig:        &s.MediaConfig,
		KeyPrinterMediaConfig: &s.PrinterMediaConfig,
		KeyHotfolderRoot:      &s.HotfolderRoot,
		KeyArtRootPath:        &s.ArtRootPath,
		KeyClientArtFolders:   &s.ClientArtFolders,
		KeyEnableArtCopy:      &s.EnableArtCopy,
		KeyRoutingRules:       &s.RoutingRules,
		KeyShowPanel:          &s.ShowPanel,
		KeyIncludeVars:        &s.IncludeVars,
		KeyOrder:              &s.Order,
	}
}

// merge overlays each top-level key of doc onto s; stored values replace
// defaults wholesale, key by key.
func (s *Settings) merge(doc map[string]json.RawMessage) error {
	fields := s.fieldPointers()
	for key, raw := range doc {
		dst, ok := fields[key]
		if !ok {
			s.extra[key] = raw
			continue
		}
		if err := decodeField(raw, dst); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	s.normalize()
	return nil
}

// decodeField replaces the value behind dst with raw. encoding/json reuses
// non-nil maps and slices, so the field is zeroed first.
func decodeField(raw json.RawMessage, dst any) error {
	field := reflect.ValueOf(dst).Elem()
	fresh := reflect.New(field.Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return err
	}
	field.Set(fresh.Elem())
	return nil
}

// normalize replaces nil collections and fills rule defaults.
func (s *Settings) normalize() {
	if s.Printers == nil {
		s.Printers = map[string]Printer{}
	}
	if s.MediaConfig == nil {
		s.MediaConfig = MediaConfig{}
	}
	if s.PrinterMediaConfig == nil {
		s.PrinterMediaConfig = map[string]MediaConfig{}
	}
	if s.ClientArtFolders == nil {
		s.ClientArtFolders = map[string]string{}
	}
	if s.RoutingRules == nil {
		s.RoutingRules = map[string][]rule.Rule{}
	}
	if s.IncludeVars == nil {
		s.IncludeVars = map[string]bool{}
	}
	if s.extra == nil {
		s.extra = map[string]json.RawMessage{}
	}
	for printer, rules := range s.RoutingRules {
		for i := range rules {
			rules[i].Normalize()
		}
		s.RoutingRules[printer] = rules
	}
}

// MarshalJSON writes known fields and preserved unknown keys as one object.
func (s *Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.extra)+12)
	for k, v := range s.extra {
		out[k] = v
	}
	for k, v := range s.fieldPointers() {
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes data over the defaults.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*s = *Defaults()
	return s.merge(doc)
}

// Get returns the JSON-decoded value for key, known or preserved.
func (s *Settings) Get(key string) (any, bool) {
	var raw []byte
	if ptr, ok := s.fieldPointers()[key]; ok {
		b, err := json.Marshal(ptr)
		if err != nil {
			return nil, false
		}
		raw = b
	} else if r, ok := s.extra[key]; ok {
		raw = r
	} else {
		return nil, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// Set stores value under key. Known keys are decoded into their typed field
// and rejected when the value has the wrong shape.
func (s *Settings) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if ptr, ok := s.fieldPointers()[key]; ok {
		if err := decodeField(raw, ptr); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		s.normalize()
		return nil
	}
	s.extra[key] = raw
	return nil
}

// ExtraKeys lists the preserved unknown keys in sorted order.
func (s *Settings) ExtraKeys() []string {
	keys := make([]string, 0, len(s.extra))
	for k := range s.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
