package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/meta"
	"github.com/pizdarikihq/teable/internal/record"
	"github.com/pizdarikihq/teable/pkg/config"
	"github.com/pizdarikihq/teable/pkg/logger"
)

// Config is the application configuration, loaded from TEABLE_* environment
// variables and an optional .env file.
type Config struct {
	DB  database.Config `mapstructure:"db"`
	Log logger.Config   `mapstructure:"log"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "teable",
		Short:         "Record engine for user-defined tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateCmd(), newListCmd(), newSnapshotCmd())
	return root
}

func setup() (*record.Service, database.Client, error) {
	var cfg Config
	if err := config.Load("TEABLE_", &cfg); err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.Log)

	client, err := openClient(cfg.DB)
	if err != nil {
		return nil, nil, err
	}

	repo, err := meta.NewCached(meta.NewSQLRepository(client), 256)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return record.NewService(client, repo), client, nil
}

func openClient(cfg database.Config) (database.Client, error) {
	switch cfg.Driver {
	case "sqlite":
		return database.NewSQLite(cfg.Path)
	case "postgres", "":
		return database.NewPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newCreateCmd() *cobra.Command {
	var tableID, data, createdBy string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a batch of records from a JSON array of field maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			var fieldMaps []map[string]any
			if err := json.Unmarshal([]byte(data), &fieldMaps); err != nil {
				return fmt.Errorf("bad --data: %w", err)
			}
			batch := make([]record.RecordInput, len(fieldMaps))
			for i, m := range fieldMaps {
				batch[i] = record.RecordInput{Fields: m}
			}

			svc, client, err := setup()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := svc.CreateRecords(context.Background(), tableID, batch, createdBy)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&tableID, "table", "", "table id")
	cmd.Flags().StringVar(&data, "data", "[]", "JSON array of field-id-keyed value maps")
	cmd.Flags().StringVar(&createdBy, "created-by", "cli", "creator identity")
	cmd.MarkFlagRequired("table")
	return cmd
}

func newListCmd() *cobra.Command {
	var tableID, viewID string
	var skip, take int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records of a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, client, err := setup()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := svc.ListRecords(context.Background(), tableID, record.ListOptions{
				ViewID: viewID,
				Skip:   skip,
				Take:   take,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&tableID, "table", "", "table id")
	cmd.Flags().StringVar(&viewID, "view", "", "view id (default: first view)")
	cmd.Flags().IntVar(&skip, "skip", 0, "offset")
	cmd.Flags().IntVar(&take, "take", 0, "page size (default 10)")
	cmd.MarkFlagRequired("table")
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	var tableID, ids, projection string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch sync snapshots for record ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, client, err := setup()
			if err != nil {
				return err
			}
			defer client.Close()

			var fieldIDs []string
			if projection != "" {
				fieldIDs = strings.Split(projection, ",")
			}
			snapshots, err := svc.GetSnapshots(context.Background(), tableID, strings.Split(ids, ","), fieldIDs)
			if err != nil {
				return err
			}
			return printJSON(snapshots)
		},
	}
	cmd.Flags().StringVar(&tableID, "table", "", "table id")
	cmd.Flags().StringVar(&ids, "ids", "", "comma-separated record ids")
	cmd.Flags().StringVar(&projection, "fields", "", "comma-separated field ids to project")
	cmd.MarkFlagRequired("table")
	cmd.MarkFlagRequired("ids")
	return cmd
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
