package cli

import (
	"fmt"
	"text/tabwriter"

	"table_booking/internal/db"
	"table_booking/internal/domain"
	"table_booking/internal/repository"
	"table_booking/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage restaurant tables",
	}
	cmd.AddCommand(newTablesAddCmd())
	cmd.AddCommand(newTablesListCmd())
	return cmd
}

func newTablesAddCmd() *cobra.Command {
	var (
		name     string
		capacity int
		location string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if capacity < 0 {
				return fmt.Errorf("capacity must not be negative")
			}
			ctx := cmd.Context()
			gdb, cfg, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			table := &domain.Table{Name: name, Capacity: capacity, Location: location}
			if err := repository.NewTableRepository(gdb).Create(ctx, table); err != nil {
				return fmt.Errorf("create table: %w", err)
			}

			// The server caches the table list
			rdb, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
			if err != nil {
				logrus.WithError(err).Warn("Redis unavailable, cached table list may be stale until it expires")
			} else if rdb != nil {
				defer rdb.Close()
				if err := utils.DeleteCache(ctx, rdb, utils.CacheKeyTables); err != nil {
					logrus.WithError(err).Warn("Failed to invalidate tables cache")
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created table %d %q (capacity %d)\n", table.ID, table.Name, table.Capacity)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "table name")
	c.Flags().IntVar(&capacity, "capacity", 0, "seats, 0 for unlimited")
	c.Flags().StringVar(&location, "location", "", "where the table is")
	_ = c.MarkFlagRequired("name")
	return c
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gdb, _, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			tables, err := repository.NewTableRepository(gdb).List(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCAPACITY\tLOCATION")
			for _, t := range tables {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", t.ID, t.Name, t.Capacity, t.Location)
			}
			return w.Flush()
		},
	}
}
