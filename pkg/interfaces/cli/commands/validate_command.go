package commands

import (
	"context"
	"fmt"
)

// ValidateCommand checks a scenario for dangling references and
// duplicate keys
type ValidateCommand struct {
	config Config
}

// NewValidateCommand creates a new validate command
func NewValidateCommand(config Config) *ValidateCommand {
	return &ValidateCommand{config: config}
}

// Execute runs the validate command. An invalid scenario is reported and
// returned as an error.
func (c *ValidateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	ws, err := c.config.load(false)
	if err != nil {
		return err
	}

	w := c.config.stdout()
	fmt.Fprintf(w, "🔍 Scenario Validation\n")
	fmt.Fprintf(w, "======================\n\n")
	for _, kc := range ws.full.Counts() {
		fmt.Fprintf(w, "%-12s %d\n", kc.Kind+":", kc.Count)
	}
	fmt.Fprintln(w)

	if ws.imported != nil {
		fmt.Fprintf(w, "Imported %s from %s: %d added, %d skipped, %d errors\n\n",
			ws.imported.Kind, c.config.ImportXLSX, ws.imported.SuccessCount, ws.imported.SkippedCount, ws.imported.ErrorCount)
	}

	result := ws.validation
	if result.Valid() {
		fmt.Fprintf(w, "✅ Scenario is valid\n")
		return nil
	}

	if len(result.DanglingReferences) > 0 {
		fmt.Fprintf(w, "⚠️  Dangling references:\n")
		for _, ref := range result.DanglingReferences {
			fmt.Fprintf(w, "  - %s\n", ref)
		}
		fmt.Fprintln(w)
	}
	if len(result.DuplicateKeys) > 0 {
		fmt.Fprintf(w, "⚠️  Duplicate keys:\n")
		for _, key := range result.DuplicateKeys {
			fmt.Fprintf(w, "  - %s\n", key)
		}
		fmt.Fprintln(w)
	}

	return fmt.Errorf("scenario has %d problem(s)", len(result.DanglingReferences)+len(result.DuplicateKeys))
}

// showHelp displays the help message
func (c *ValidateCommand) showHelp() {
	fmt.Fprintf(c.config.stdout(), `procure validate - Check scenario references and keys

USAGE:
    procure validate [options]

Reports stock positions whose article or warehouse is missing, warehouses
whose prison is missing, users assigned to unknown prisons and IDs or
codes used twice.

OPTIONS:
%s`, sharedHelp)
}
