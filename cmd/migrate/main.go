package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/procifarmed/storefront-api/internal/catalog"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/db"
	"github.com/procifarmed/storefront-api/pkg/logger"
	"github.com/procifarmed/storefront-api/pkg/migrate"
)

type options struct {
	dir     string
	name    string
	version string
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	var opts options
	cmd := flag.String("cmd", "up", "command: "+strings.Join(append(migrate.Commands, "version", "create", "validate", "seed"), "|"))
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name (create)")
	flag.StringVar(&opts.version, "version", "", "target YYYYMMDDHHMMSS (version)")
	flag.Parse()

	// create and validate only touch the filesystem
	switch *cmd {
	case "create":
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		exitOn("create migration", err)
		fmt.Println("created migration:", path)
		return
	case "validate":
		exitOn("validate migrations", migrate.ValidateDir(opts.dir))
		fmt.Println("migrations valid:", opts.dir)
		return
	}

	cfg, err := config.Load()
	exitOn("load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     strings.EqualFold(cfg.App.LogFormat, "console"),
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": opts.dir,
	})

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "database unavailable", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := dispatch(ctx, client, *cmd, opts); err != nil {
		logg.Error(ctx, "migrate command failed", err)
		client.Close()
		os.Exit(1)
	}
	logg.Info(ctx, "migrate command finished")
}

func dispatch(ctx context.Context, client *db.Client, cmd string, opts options) error {
	if cmd == "seed" {
		inserted, err := catalog.Seed(ctx, catalog.NewRepository(client.DB()))
		if err != nil {
			return err
		}
		fmt.Println("catalog products inserted:", inserted)
		return nil
	}

	if client.Dialect() != "postgres" {
		return fmt.Errorf("goose migrations target postgres, got %q (sqlite is auto-migrated by the api in dev)", client.Dialect())
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	return runGoose(ctx, sqlDB, cmd, opts)
}

func runGoose(ctx context.Context, sqlDB *sql.DB, cmd string, opts options) error {
	if cmd == "version" {
		if opts.version == "" {
			return fmt.Errorf("missing -version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version)
	}
	return migrate.Run(ctx, sqlDB, opts.dir, cmd)
}

func exitOn(step string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
