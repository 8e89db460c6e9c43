package cmd

import (
	"context"
	"fmt"

	"crm-sync/core/config"
	"crm-sync/core/database"
	"crm-sync/core/logger"
	"crm-sync/core/storage"
	"crm-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the report bucket, the sync tables and the remote CRM",
	Long:  `Runs every integrity check. Use a subcommand to run a single one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the report bucket and prefix",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// databaseCmd represents the integrity database command
var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the sync tables for missing columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// remoteCmd represents the integrity remote command
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Check that the remote CRM answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCmd, databaseCmd, remoteCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket or prefix")
}

func runIntegrityChecks(ctx context.Context, runStorage, runDatabase, runRemote bool) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	// The tables are not migrated here so missing columns stay visible.
	var db *gorm.DB
	if runDatabase {
		if db, err = database.Connect(cfg.Database); err != nil {
			return err
		}
	}

	client, err := newRemote(ctx, cfg.Remote, store, cfg.Storage.Bucket)
	if err != nil {
		return err
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, cfg.Sync.ReportPrefix, db, client, logg)
	healthy := true

	if runStorage {
		logg.Info("Checking report storage...")
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}

		if report.OK() {
			logg.Info("Report storage is intact.")
		} else {
			logg.Warn("Report storage incomplete",
				zap.Bool("bucket_exists", report.BucketExists),
				zap.Bool("prefix_exists", report.PrefixExists),
			)
			if fixFlag {
				if err := svc.FixStorage(ctx, report); err != nil {
					return fmt.Errorf("failed to fix storage: %w", err)
				}
				logg.Info("Report storage fixed successfully.")
			} else {
				healthy = false
				logg.Info("Run 'integrity storage --fix' to create them.")
			}
		}
	}

	if runDatabase {
		logg.Info("Checking sync tables...")
		report, err := svc.CheckDatabase()
		if err != nil {
			return fmt.Errorf("database check failed: %w", err)
		}

		if report.Matched {
			logg.Info("Sync tables match the expected schema.")
		} else {
			healthy = false
			for table, tbl := range report.Tables {
				if tbl.Status != "ok" {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
			}
		}
	}

	if runRemote {
		logg.Info("Checking remote CRM...", zap.String("driver", cfg.Remote.Driver))
		report := svc.CheckRemote(ctx)
		if report.Reachable {
			logg.Info("Remote CRM is reachable.", zap.Int("custom_fields", report.CustomFields))
		} else {
			healthy = false
			logg.Error("Remote CRM unreachable", zap.String("error", report.Error))
		}
	}

	if !healthy {
		return fmt.Errorf("integrity checks failed")
	}
	return nil
}
