// Package filename builds standardized print job filenames from job data and
// a configurable component order.
package filename

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Extension is appended to every generated filename.
const Extension = ".pdf"

// Component keys, in default order.
const (
	JobNumber    = "job_number"
	Client       = "client"
	Size         = "size"
	Quantity     = "quantity"
	Finish       = "finish"
	Bleed        = "bleed"
	Rotation     = "rotation"
	Registration = "registration"
	Grommets     = "grommets"
	PolePockets  = "pole_pockets"
	Mirror       = "mirror"
	Date         = "date"
	CustomText   = "custom_text"
)

// Components is the default component order.
var Components = []string{
	JobNumber, Client, Size, Quantity, Finish, Bleed, Rotation,
	Registration, Grommets, PolePockets, Mirror, Date, CustomText,
}

var displayNames = map[string]string{
	JobNumber:    "Job Number",
	Client:       "Client Name",
	Size:         "Size (WxH)",
	Quantity:     "Quantity",
	Finish:       "Finish",
	Bleed:        "Bleed",
	Rotation:     "Rotation",
	Registration: "Registration",
	Grommets:     "Grommets",
	PolePockets:  "Pole Pockets",
	Mirror:       "Mirror",
	Date:         "Date (MM-DD-YY)",
	CustomText:   "Custom Text",
}

// componentValue resolves one component from raw job data.
type componentValue func(data map[string]string, now time.Time) string

func field(key string) componentValue {
	return func(data map[string]string, _ time.Time) string {
		return strings.TrimSpace(data[key])
	}
}

func fieldOr(data map[string]string, key, def string) string {
	v, ok := data[key]
	if !ok {
		return def
	}
	return strings.TrimSpace(v)
}

var resolvers = map[string]componentValue{
	JobNumber: func(data map[string]string, _ time.Time) string {
		return fieldOr(data, "job_prefix", "TIT") + fieldOr(data, "job_suffix", "")
	},
	Client: field("client"),
	Size: func(data map[string]string, _ time.Time) string {
		return fieldOr(data, "size_w", "") + "x" + fieldOr(data, "size_h", "")
	},
	Quantity: func(data map[string]string, _ time.Time) string {
		return "QTY" + fieldOr(data, "quantity", "1")
	},
	Finish:       field("finish"),
	Bleed:        field("bleed"),
	Rotation:     field("rotation"),
	Registration: field("registration"),
	Grommets:     field("grommets"),
	PolePockets:  field("pole_pockets"),
	Mirror:       field("mirror"),
	Date: func(_ map[string]string, now time.Time) string {
		return now.Format("01-02-06")
	},
	CustomText: field("custom_text"),
}

// Generator produces filenames. The zero value is not usable; use New.
type Generator struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for the date component and
// fallback names.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger used to report generation failures.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a filename from jobData following order. Components that
// are excluded by include (absent keys count as included), empty, or equal to
// "none"/"no" are skipped. It never fails: an internal error yields an
// error_<timestamp>.pdf name.
func (g *Generator) Generate(jobData map[string]string, order []string, include map[string]bool) (name string) {
	now := g.now()
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Filename generation failed", zap.Any("panic", r))
			name = fmt.Sprintf("error_%s%s", now.Format("20060102_150405"), Extension)
		}
	}()

	parts := g.buildParts(jobData, now)

	ordered := make([]string, 0, len(order))
	for _, key := range order {
		if inc, ok := include[key]; ok && !inc {
			continue
		}

		part := parts[key]
		if part == "" {
			continue
		}
		if lower := strings.ToLower(part); lower == "none" || lower == "no" {
			continue
		}
		if key == Size && part == "x" {
			continue
		}

		clean := strings.ReplaceAll(part, " ", "_")
		clean = strings.ReplaceAll(clean, "&", "and")
		ordered = append(ordered, clean)
	}

	if len(ordered) == 0 {
		return "untitled" + Extension
	}
	return strings.Join(ordered, "_") + Extension
}

// Preview is Generate under the name the job form uses for live previews.
func (g *Generator) Preview(jobData map[string]string, order []string, include map[string]bool) string {
	return g.Generate(jobData, order, include)
}

func (g *Generator) buildParts(jobData map[string]string, now time.Time) map[string]string {
	parts := make(map[string]string, len(resolvers))
	for key, resolve := range resolvers {
		parts[key] = resolve(jobData, now)
	}
	return parts
}

// DisplayName returns the human label for a component key.
func DisplayName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// IsComponent reports whether key names a known component.
func IsComponent(key string) bool {
	_, ok := resolvers[key]
	return ok
}
