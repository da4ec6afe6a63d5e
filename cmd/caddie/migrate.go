package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/caddie/caddie/internal/platform"
	"github.com/caddie/caddie/internal/store"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres insight store schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (default: $DATABASE_URL)")

	withStore := func(ctx context.Context, fn func(*store.PostgresStore) error) error {
		dsn := firstNonEmpty(databaseURL, os.Getenv("DATABASE_URL"))
		if dsn == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		st, err := store.OpenPostgres(ctx, dsn)
		if err != nil {
			return err
		}
		defer st.Close()
		return fn(st)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(st *store.PostgresStore) error {
				if err := platform.AutoMigrate(st.DB()); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), st)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(st *store.PostgresStore) error {
				if err := platform.MigrateDown(st.DB(), steps); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), st)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(st *store.PostgresStore) error {
				return printVersion(cmd.OutOrStdout(), st)
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List embedded migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := platform.Migrations()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.AddCommand(up, down, version, list)
	return cmd
}

func printVersion(w io.Writer, st *store.PostgresStore) error {
	v, dirty, err := platform.SchemaVersion(st.DB())
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(w, "schema version %d (dirty)\n", v)
		return nil
	}
	fmt.Fprintf(w, "schema version %d\n", v)
	return nil
}
