package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/3leaps/gohotfolder/pkg/job"
)

// jobFlags are the job attribute flags shared by process and route.
type jobFlags struct {
	jobFile   string
	preset    string
	client    string
	printer   string
	prefix    string
	suffix    string
	size      string
	quantity  string
	finish    string
	mediaGrp  string
	media     string
	jobType   string
	printMode string
	fields    map[string]string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.jobFile, "job-file", "", "YAML or JSON file of job fields (snake_case keys)")
	fl.StringVar(&f.preset, "preset", "", fmt.Sprintf("Job preset to apply (%s)", strings.Join(job.PresetNames(), ", ")))
	fl.StringVar(&f.client, "client", "", "Client name")
	fl.StringVar(&f.printer, "printer", "", "Printer display name")
	fl.StringVar(&f.prefix, "job-prefix", "", "Job number prefix (default TIT)")
	fl.StringVar(&f.suffix, "job-suffix", "", "Job number suffix")
	fl.StringVar(&f.size, "size", "", "Print size as WxH, e.g. 24x36")
	fl.StringVar(&f.quantity, "qty", "", "Quantity")
	fl.StringVar(&f.finish, "finish", "", "Finish")
	fl.StringVar(&f.mediaGrp, "media-group", "", "Media group")
	fl.StringVar(&f.media, "media", "", "Media type")
	fl.StringVar(&f.jobType, "job-type", "", "Job type: Standard, Rush or Reprint")
	fl.StringVar(&f.printMode, "print-mode", "", "Print mode: Roll or Flatbed")
	fl.StringToStringVar(&f.fields, "set", nil, "Set any job field, e.g. --set bleed=Bleed --set grommets=Corners")
}

// readJobFile decodes a job file. JSON is accepted since it is valid YAML.
func readJobFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fields, nil
}

// build layers defaults, the job file, the preset, the named flags and
// --set, in that order.
func (f *jobFlags) build() (*job.Job, error) {
	j := job.New()

	if f.jobFile != "" {
		fields, err := readJobFile(f.jobFile)
		if err != nil {
			return nil, err
		}
		j.Apply(fields)
	}

	if f.preset != "" {
		if err := j.ApplyPreset(f.preset); err != nil {
			return nil, err
		}
	}

	named := map[string]any{}
	set := func(key, val string) {
		if val != "" {
			named[key] = val
		}
	}
	set("client", f.client)
	set("printer", f.printer)
	set("job_prefix", f.prefix)
	set("job_suffix", f.suffix)
	set("quantity", f.quantity)
	set("finish", f.finish)
	set("media_group", f.mediaGrp)
	set("media", f.media)
	set("job_type", f.jobType)
	set("print_mode", f.printMode)
	if f.size != "" {
		w, h, ok := strings.Cut(strings.ToLower(f.size), "x")
		if !ok || w == "" || h == "" {
			return nil, fmt.Errorf("invalid --size %q: expected WxH", f.size)
		}
		named["size_w"] = strings.TrimSpace(w)
		named["size_h"] = strings.TrimSpace(h)
	}
	j.Apply(named)

	extra := make(map[string]any, len(f.fields))
	for k, v := range f.fields {
		extra[k] = v
	}
	j.Apply(extra)
	return j, nil
}
