package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pawfectfind/pawfectfind-backend/pkg/config"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/migrate"
)

const usage = `usage: migrate [-dir path] <command> [arg]

commands:
  up              apply every pending migration
  down            roll back the latest migration
  status          list applied and pending migrations
  version         print the schema version recorded in the database
  to <version>    move up or down to version (YYYYMMDDHHMMSS)
  create <name>   write an empty migration into -dir
  validate        check file names and goose annotations

Without -dir the migrations compiled into the binary are used, and create
writes into the repo directory for the configured driver.

flags:
`

// offline commands never open a database connection.
var offline = map[string]bool{"create": true, "validate": true}

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	dir := flag.String("dir", "", "migrations directory on disk")
	flag.Parse()
	if flag.NArg() == 0 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	command, arg := flag.Arg(0), flag.Arg(1)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"command": command,
		"dir":     *dir,
	})

	if err := run(ctx, cfg, logg, *dir, command, arg); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, dir, command, arg string) error {
	if offline[command] {
		return runOffline(cfg.DB.Driver, dir, command, arg)
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	m := migrate.Embedded(sqlDB, client.Dialect())
	if dir != "" {
		m = migrate.FromDir(sqlDB, client.Dialect(), dir)
	}

	switch command {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = m.Status(ctx)
	case "version":
		var version int64
		if version, err = m.Version(ctx); err == nil {
			fmt.Println(version)
		}
	case "to":
		var target int64
		if target, err = migrate.ParseVersion(arg); err == nil {
			err = m.To(ctx, target)
		}
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err == nil {
		logg.Info(ctx, "migrate complete")
	}
	return err
}

func runOffline(driver, dir, command, arg string) error {
	switch command {
	case "create":
		if arg == "" {
			return errors.New("create needs a migration name")
		}
		if dir == "" {
			dir = migrate.SourceDir(driver)
		}
		path, err := migrate.NewMigrationFile(dir, arg, time.Now())
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		var (
			count int
			err   error
		)
		if dir == "" {
			count, err = migrate.ValidateEmbedded(driver)
		} else {
			count, err = migrate.ValidateDir(dir)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%d migrations ok\n", count)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}
