package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/observability"
	"github.com/3leaps/gohotfolder/pkg/routing"
	"github.com/3leaps/gohotfolder/pkg/rule"
)

var (
	ruleCriteria map[string]string
	rulePriority string
	rulesApply   bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage per-printer routing rules",
	Long: `List, add, remove, generate and validate routing rules.

A rule routes a job to a printer subfolder when every one of its criteria
equals the job's value for that attribute. Rule numbers shown by 'rules list'
are 1-based and are what 'rules remove' expects.`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list <printer>",
	Short: "List a printer's routing rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <printer> <target-folder>",
	Short: "Add a routing rule",
	Long: `Append a routing rule to a printer's list.

Examples:
  gohotfolder rules add S60 "Matte Bleed" --criteria Finish=Matte --criteria Bleed=Bleed
  gohotfolder rules add Canon Banners --criteria "Media Group=Banner" --priority High`,
	Args: cobra.ExactArgs(2),
	RunE: runRulesAdd,
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove <printer> <number>",
	Short: "Remove a routing rule by its number",
	Args:  cobra.ExactArgs(2),
	RunE:  runRulesRemove,
}

var rulesAutoCmd = &cobra.Command{
	Use:   "auto <printer>",
	Short: "Generate rules from the names of unmapped folders",
	Long: `Guess routing criteria from each hotfolder subfolder that no rule targets yet
and propose one auto-generated rule per folder. Nothing is saved unless
--apply is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesAuto,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <printer>",
	Short: "Check a printer's rules for errors and conflicts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesValidate,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesRemoveCmd, rulesAutoCmd, rulesValidateCmd)

	rulesAddCmd.Flags().StringToStringVar(&ruleCriteria, "criteria", nil, `Criterion as "Key=Value"; repeatable`)
	rulesAddCmd.Flags().StringVar(&rulePriority, "priority", rule.PriorityNormal, "Priority: High, Normal or Low")
	rulesAutoCmd.Flags().BoolVar(&rulesApply, "apply", false, "Save the generated rules")
}

func printRules(cmd *cobra.Command, rules []rule.Rule) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTARGET\tPRIORITY\tAUTO\tCRITERIA")
	for i, r := range rules {
		auto := ""
		if r.AutoGenerated {
			auto = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.TargetFolder, r.Priority, auto, r.CriteriaText())
	}
	return tw.Flush()
}

func runRulesList(cmd *cobra.Command, args []string) error {
	st, _ := loadSettings()
	rules := st.RoutingRulesFor(args[0])
	if jsonlOutput() {
		return writeJSONLines(cmd, rules)
	}
	if len(rules) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No routing rules for %s\n", args[0])
		return nil
	}
	return printRules(cmd, rules)
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	printer, target := args[0], args[1]

	r := rule.New(target, ruleCriteria)
	r.Priority = rulePriority
	if ok, errs := r.Validate(); !ok {
		for _, e := range errs {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "  -", e)
		}
		return exitError(foundry.ExitInvalidArgument, "Invalid rule", fmt.Errorf("%d issue(s)", len(errs)))
	}

	st, store, err := readSettings()
	if err != nil {
		return err
	}
	for i, existing := range st.RoutingRulesFor(printer) {
		if r.ConflictsWith(existing) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: conflicts with rule %d (%s)\n", i+1, existing.TargetFolder)
		}
	}
	st.AddRoutingRule(printer, r)
	if err := saveSettings(store, st); err != nil {
		return err
	}

	observability.CLILogger.Info("Routing rule added",
		zap.String("printer", printer),
		zap.String("target", target),
		zap.String("criteria", r.CriteriaText()),
	)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added rule %d for %s: %s\n", len(st.RoutingRulesFor(printer)), printer, r)
	return nil
}

func runRulesRemove(cmd *cobra.Command, args []string) error {
	printer := args[0]
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return exitError(foundry.ExitInvalidArgument, "Invalid rule number", fmt.Errorf("%q is not a positive integer", args[1]))
	}

	st, store, err := readSettings()
	if err != nil {
		return err
	}
	removed, err := st.RemoveRoutingRule(printer, n-1)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "No such rule", err)
	}
	if err := saveSettings(store, st); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed rule %d for %s: %s\n", n, printer, removed)
	return nil
}

func runRulesAuto(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := args[0]

	st, store := loadSettings()
	if rulesApply {
		var err error
		if st, store, err = readSettings(); err != nil {
			return err
		}
	}
	engine := newEngine(st)

	folders, err := engine.PrinterFolders(ctx, printer, nil)
	if err != nil {
		return exitError(foundry.ExitFileNotFound, "Cannot list printer folders", err)
	}

	mapped := map[string]bool{}
	for _, r := range st.RoutingRulesFor(printer) {
		mapped[r.TargetFolder] = true
	}

	var created []rule.Rule
	for _, folder := range folders {
		if mapped[folder] {
			continue
		}
		r, err := engine.CreateAutoRoutingRule(printer, folder, routing.DetectFolderAttributes(folder), rulesApply)
		if errors.Is(err, routing.ErrNoAttributes) {
			observability.CLILogger.Debug("No attributes detected", zap.String("folder", folder))
			continue
		}
		if err != nil {
			observability.CLILogger.Warn("Skipping folder", zap.String("folder", folder), zap.Error(err))
			continue
		}
		created = append(created, r)
	}

	if rulesApply && len(created) > 0 {
		if err := saveSettings(store, st); err != nil {
			return err
		}
	}

	if jsonlOutput() {
		return writeJSONLines(cmd, created)
	}
	out := cmd.OutOrStdout()
	if len(created) == 0 {
		_, _ = fmt.Fprintln(out, "No new rules could be generated")
		return nil
	}
	if err := printRules(cmd, created); err != nil {
		return err
	}
	if rulesApply {
		_, _ = fmt.Fprintf(out, "\nSaved %d rule(s) for %s\n", len(created), printer)
	} else {
		_, _ = fmt.Fprintln(out, "\nDry run; pass --apply to save these rules")
	}
	return nil
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	printer := args[0]
	st, _ := loadSettings()
	rules := st.RoutingRulesFor(printer)
	out := cmd.OutOrStdout()

	problems := 0
	for i, r := range rules {
		if ok, errs := r.Validate(); !ok {
			for _, e := range errs {
				_, _ = fmt.Fprintf(out, "rule %d (%s): %s\n", i+1, r.TargetFolder, e)
				problems++
			}
		}
	}
	for i := range rules {
		for k := i + 1; k < len(rules); k++ {
			if rules[i].ConflictsWith(rules[k]) {
				_, _ = fmt.Fprintf(out, "rule %d (%s) conflicts with rule %d (%s)\n", i+1, rules[i].TargetFolder, k+1, rules[k].TargetFolder)
				problems++
			}
		}
	}

	if problems > 0 {
		return exitError(foundry.ExitInvalidArgument, "Rule validation failed", fmt.Errorf("%d problem(s) in %d rule(s)", problems, len(rules)))
	}
	_, _ = fmt.Fprintf(out, "%d rule(s) for %s are valid\n", len(rules), printer)
	return nil
}
