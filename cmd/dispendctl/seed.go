package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dispend/internal/database"
	"dispend/internal/services"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, mgr, err := openMigratedStore()
			if err != nil {
				return err
			}
			defer func() { _ = mgr.Close() }()

			n, err := database.SeedCategories(mgr.DB())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Categories already present, nothing seeded")
				return nil
			}
			success.Fprintf(cmd.OutOrStdout(), "Seeded %d categories\n", n)
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a consistent copy of the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mgr, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = mgr.Close() }()

			db := mgr.DB()
			path, err := services.NewMaintenanceService(mgr, cfg.BackupDir).Backup()
			if err != nil {
				return err
			}
			services.NewAuditService(db).Log(services.AuditActionBackup, "store", "", "cli", map[string]any{"path": path})

			success.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
}
