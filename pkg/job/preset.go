package job

import (
	"fmt"
	"sort"
)

// Preset is a named set of job field overrides.
type Preset map[string]string

// Presets are the built-in job presets.
var Presets = map[string]Preset{
	"Banner Standard": {
		"media_group":  "Banner",
		"media":        "Scrim",
		"size_w":       "48",
		"size_h":       "96",
		"grommets":     "Corners",
		"pole_pockets": "None",
		"finish":       "Matte",
	},
	`Banner 38"`: {
		"media_group":  "Banner",
		"media":        "Scrim",
		"size_w":       "38",
		"size_h":       "72",
		"grommets":     "Top",
		"pole_pockets": "Bottom",
		"finish":       "Matte",
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overlays the named preset onto j.
func (j *Job) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	data := make(map[string]any, len(p))
	for k, v := range p {
		data[k] = v
	}
	j.Apply(data)
	return nil
}
