package routing

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/pkg/rule"
)

// ErrNoAttributes is returned when an auto rule has nothing to match on.
var ErrNoAttributes = errors.New("no attributes detected")

// CreateAutoRoutingRule builds a Normal priority, auto-generated rule that
// routes jobs carrying attrs to folder. The rule is validated first. With
// persist set it is appended to printer's rule list; saving the settings
// document is left to the caller.
func (e *Engine) CreateAutoRoutingRule(printer, folder string, attrs map[string]string, persist bool) (rule.Rule, error) {
	if len(attrs) == 0 {
		return rule.Rule{}, fmt.Errorf("folder %q: %w", folder, ErrNoAttributes)
	}

	criteria := make(map[string]string, len(attrs))
	for k, v := range attrs {
		criteria[k] = v
	}
	r := rule.New(folder, criteria)
	r.AutoGenerated = true

	if ok, errs := r.Validate(); !ok {
		return rule.Rule{}, fmt.Errorf("invalid auto-generated rule for %q: %s", folder, strings.Join(errs, "; "))
	}

	if persist {
		e.settings.AddRoutingRule(printer, r)
		e.logger.Info("Auto-generated routing rule added",
			zap.String("printer", printer),
			zap.String("folder", folder),
			zap.String("criteria", r.CriteriaText()),
		)
	}
	return r, nil
}
