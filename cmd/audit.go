package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"crm-sync/feature/sync/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the audit command
	auditPrune  bool
	auditDryRun bool
	yesConfirm  bool
)

// auditCmd cross-checks link rows with both sides of the sync.
var auditCmd = &cobra.Command{
	Use:   "audit <kind>",
	Short: "Audit link rows against local entities and remote records",
	Long: `Report links whose local entity or remote record no longer exists,
together with the records that are linked on neither side.

Examples:
  # Report only
  audit contact

  # Prune stale links (with interactive confirmation)
  audit contact --prune

  # Prune with auto-confirm (non-interactive)
  audit contact --prune --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().BoolVar(&auditPrune, "prune", false, "Delete stale links")
	auditCmd.Flags().BoolVar(&auditDryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	auditCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()
	svc := a.feature.Service()

	opts := audit.Options{DoPrune: auditPrune, DryRun: auditDryRun}

	// Step 1: Plan (always runs)
	plan, err := svc.Audit(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to audit links: %w", err)
	}
	printAuditReport(a.logger, plan)

	if !auditPrune {
		a.logger.Info("No actions requested. Use --prune to delete stale links.")
		return nil
	}
	if auditDryRun {
		a.logger.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		a.logger.Info("No actions required.")
		return nil
	}

	// Step 2: Apply (if confirmed)
	if !confirmDestructiveAction(os.Stdin) {
		a.logger.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	n, err := svc.Prune(ctx, plan, opts)
	if err != nil {
		return err
	}
	a.logger.Info("Successfully pruned links", zap.Int("count", n))
	return nil
}

// printAuditReport logs the summary and a sample of the planned actions.
func printAuditReport(l *zap.Logger, plan *audit.Plan) {
	s := plan.Summary
	l.Info("Link audit report",
		zap.String("kind", plan.Kind),
		zap.Int("total_links", s.TotalLinks),
		zap.Int("missing_local", s.MissingLocal),
		zap.Int("missing_remote", s.MissingRemote),
		zap.Int("unlinked_local", s.UnlinkedLocal),
		zap.Int("unlinked_remote", s.UnlinkedRemote),
	)

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader) bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to confirm destructive actions: ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
