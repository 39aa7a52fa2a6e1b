package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/app"
)

var initdbConfirmed bool

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Recreate the service tables and default settings",
	Long: `Drop and recreate the tables this service owns (settings and audit log),
then seed the default landing page. Catalog, orders and users live in the
upstream API and are not touched.

Examples:
  tutti initdb --yes -c ./tutti.yml`,
	RunE: runInitdb,
}

func init() {
	initdbCmd.Flags().BoolVar(&initdbConfirmed, "yes", false, "confirm dropping the local tables")
	rootCmd.AddCommand(initdbCmd)
}

func runInitdb(cmd *cobra.Command, args []string) error {
	if !initdbConfirmed {
		return errors.New("initdb drops the settings and audit log tables; rerun with --yes")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if err := application.InitDb(); err != nil {
		return err
	}
	zap.L().Info("database initialized", zap.String("type", cfg.Database.Type))
	return nil
}
