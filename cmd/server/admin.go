package main

import (
	"encoding/json"
	"fmt"

	"github.com/rpggio/streaks/internal/app"
	"github.com/rpggio/streaks/internal/sqlite"
	"github.com/rpggio/streaks/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(apply func(cmd *cobra.Command, db *sqlite.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if err := ensureDir(cfg.DB.Path); err != nil {
				return err
			}
			db, err := sqlite.New(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			return apply(cmd, db)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: run(func(_ *cobra.Command, db *sqlite.DB) error {
				return db.RunMigrations()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: run(func(_ *cobra.Command, db *sqlite.DB) error {
				return migrations.MigrateDown(db.DB.DB)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the schema version",
			RunE: run(func(cmd *cobra.Command, db *sqlite.DB) error {
				st, err := db.MigrationStatus()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d latest=%d dirty=%t current=%t\n", st.Version, st.Latest, st.Dirty, st.Current())
				return nil
			}),
		},
	)
	return cmd
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print completion statistics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			logger, closeLog := newLogger(cfg)
			defer closeLog()

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			a := buildApp(cfg, db, app.Options{Logger: logger})
			summary, err := a.Stats.Summary(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
}

func newAPIKeyCmd(root *rootOptions) *cobra.Command {
	var clientID, description string
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage HTTP bearer tokens",
	}
	add := &cobra.Command{
		Use:   "add TOKEN",
		Short: "Register a bearer token for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlite.NewAPIKeyRepository(db).Add(cmd.Context(), args[0], clientID, description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered key for %s\n", clientID)
			return nil
		},
	}
	add.Flags().StringVar(&clientID, "client", "", "client ID the token authenticates as")
	add.Flags().StringVar(&description, "description", "", "free-form note")
	_ = add.MarkFlagRequired("client")
	cmd.AddCommand(add)
	return cmd
}
