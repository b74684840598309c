package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"preschool/internal/config"
	"preschool/internal/logging"
	"preschool/internal/media"
	"preschool/internal/store"
	"preschool/internal/users"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	cfg      config.App
	usrSvc   *users.Service
	mediaSvc *media.Service
	log      *slog.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seed admin [-email EMAIL] [-name NAME] [-password PASSWORD] - create the bootstrap admin")
	fmt.Println("  seed banners                                                 - insert the default banners")
	fmt.Println("  seed all                                                     - both of the above")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	adminCmd := flag.NewFlagSet("admin", flag.ContinueOnError)
	email := adminCmd.String("email", cli.cfg.SeedAdminEmail, "admin email")
	name := adminCmd.String("name", cli.cfg.SeedAdminName, "admin display name")
	password := adminCmd.String("password", cli.cfg.SeedAdminPassword, "admin password (defaults to SEED_ADMIN_PASSWORD)")

	switch args[1] {
	case "admin", "all":
		if err := adminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *password == "" {
			adminCmd.Usage()
			return errHelp
		}
		created, err := cli.usrSvc.EnsureAdmin(ctx, *email, *name, *password)
		if err != nil {
			return err
		}
		cli.log.Info("admin seeded", slog.String("email", *email), slog.Bool("created", created))
		if args[1] == "admin" {
			return nil
		}
		fallthrough
	case "banners":
		n, err := cli.mediaSvc.SeedBanners(ctx)
		if err != nil {
			return err
		}
		cli.log.Info("banners seeded", slog.Int("inserted", n))
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel).With(logging.Module("seed"))
	ctx := context.Background()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", logging.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	cli := &commandLine{
		cfg:      cfg,
		usrSvc:   users.NewService(users.NewPostgresRepository(db.Client), nil, log),
		mediaSvc: media.NewService(media.NewPostgresRepository(db.Client), nil, log),
		log:      log,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		log.Error("seed failed", logging.Err(err))
		os.Exit(1)
	}
}
