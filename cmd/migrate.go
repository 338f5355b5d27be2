package cmd

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"

	"todoapi/migrations"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDBForMigrations()
		if err != nil {
			return err
		}
		defer db.Close()

		goose.SetBaseFS(migrations.Migrations)
		if err := goose.SetDialect("mysql"); err != nil {
			return err
		}

		if err := goose.UpContext(cmd.Context(), db, "."); err != nil {
			return err
		}

		logrus.Info("Migrations applied")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDBForMigrations()
		if err != nil {
			return err
		}
		defer db.Close()

		goose.SetBaseFS(migrations.Migrations)
		if err := goose.SetDialect("mysql"); err != nil {
			return err
		}

		return goose.StatusContext(cmd.Context(), db, ".")
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func openDBForMigrations() (*sql.DB, error) {
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("MYSQL_DSN"))
	if dsn == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
