package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"preschool/internal/config"
	"preschool/internal/logging"
	"preschool/internal/store"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	migrate func(ctx context.Context, db *sql.DB, command string, args ...string) error // mockable
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS]")
	fmt.Println("Commands: " + strings.Join(store.MigrateCommands, ", "))
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		cli.printUsage()
		return errHelp
	}
	return cli.migrate(ctx, cli.db, fs.Arg(0), fs.Args()[1:]...)
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel).With(logging.Module("migrate"))
	ctx := context.Background()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", logging.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	cli := &commandLine{db: db.Client, migrate: store.Migrate}
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		log.Error("migration failed", logging.Err(err))
		os.Exit(1)
	}
}
