// Package cli implements the laundryctl command line.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"laundry-reservation/config"
	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/db"
	"laundry-reservation/internal/reservation"
	"laundry-reservation/internal/store"
)

// app carries the dependencies shared by every command.
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	store *reservation.Store
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		baseURL    string
		dsn        string
	)

	root := &cobra.Command{
		Use:   "laundryctl",
		Short: "Dormitory laundry reservations from the terminal",
		Long: `laundryctl lists washers and dryers, reserves and confirms machines,
and gives administrators access to restrictions and malfunction reports.

Run 'laundryctl watch' for a live view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if errors.Is(err, fs.ErrNotExist) {
				cfg = config.Default()
			} else if err != nil {
				return fmt.Errorf("failed to load config %s: %w", configPath, err)
			}
			if baseURL != "" {
				cfg.API.BaseURL = baseURL
			}
			if dsn != "" {
				cfg.Database.DSN = dsn
			}
			return a.open(cmd, cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "./config/config.yaml", "Path to the config file")
	root.PersistentFlags().StringVar(&baseURL, "api", "", "Backend base URL (overrides api.base_url)")
	root.PersistentFlags().StringVar(&dsn, "db", "", "Local cache database (overrides database.dsn)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newMeCmd(a),
		newMachinesCmd(a),
		newReserveCmd(a),
		newConfirmCmd(a),
		newCancelCmd(a),
		newReportCmd(a),
		newWatchCmd(a),
		newAdminCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) open(cmd *cobra.Command, cfg *config.Config) error {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open local cache: %w", err)
	}
	a.cfg = cfg
	a.db = gormDB
	a.store = reservation.NewStore(apiclient.New(cfg.API), store.NewGormStore(gormDB))
	if err := a.store.Hydrate(cmd.Context()); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Warning: closing local cache: %v", err)
		}
	}
}
