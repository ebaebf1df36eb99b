// Command dispendctl runs administrative tasks against the ledger store:
// schema migrations, category seeding, backups and a budget spending table.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dispend/internal/config"
	"dispend/internal/database"
	"dispend/internal/logger"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "dispendctl",
		Short:             "Administer a Dispend ledger store",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dispend.yaml)")
	cmd.PersistentFlags().String("db-driver", "", "storage driver (sqlite or postgres)")
	cmd.PersistentFlags().String("db-path", "", "SQLite database file")
	cmd.PersistentFlags().String("backup-dir", "", "directory for SQLite backups")
	cmd.PersistentFlags().String("timezone", "", "IANA time zone for budget periods")

	_ = viper.BindPFlag("db.driver", cmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("db.path", cmd.PersistentFlags().Lookup("db-path"))
	_ = viper.BindPFlag("backup.dir", cmd.PersistentFlags().Lookup("backup-dir"))
	_ = viper.BindPFlag("timezone", cmd.PersistentFlags().Lookup("timezone"))

	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(seedCmd())
	cmd.AddCommand(backupCmd())
	cmd.AddCommand(spendingCmd())

	return cmd
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("dispend")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DISPEND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// loadConfig reads the process configuration and applies any overrides from
// flags, DISPEND_* variables or the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, v *viper.Viper) {
	if s := v.GetString("db.driver"); s != "" {
		cfg.DBDriver = strings.ToLower(s)
	}
	if s := v.GetString("db.path"); s != "" {
		cfg.DBPath = s
	}
	if s := v.GetString("backup.dir"); s != "" {
		cfg.BackupDir = s
	}
	if s := v.GetString("timezone"); s != "" {
		cfg.Timezone = s
	}
}

// openStore connects to the configured store without touching its schema.
func openStore() (*config.Config, *database.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	mgr, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return cfg, mgr, nil
}

// openMigratedStore connects and applies pending migrations.
func openMigratedStore() (*config.Config, *database.Manager, error) {
	cfg, mgr, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	if err := mgr.RunMigrations(); err != nil {
		_ = mgr.Close()
		return nil, nil, err
	}
	return cfg, mgr, nil
}
