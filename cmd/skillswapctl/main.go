// Command skillswapctl runs operator tasks against the skillswap database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/garnizeh/skillswap/api"
	dbfs "github.com/garnizeh/skillswap/db"
	"github.com/garnizeh/skillswap/internal/config"
	"github.com/garnizeh/skillswap/internal/credentials"
	"github.com/garnizeh/skillswap/internal/db"
	"github.com/garnizeh/skillswap/internal/seed"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := newApp(os.Stdout, logger).Run(context.Background(), args); err != nil {
		fmt.Fprintf(os.Stderr, "skillswapctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "skillswapctl",
		Usage: "Operator tasks for the skillswap database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config YAML file"},
		},
		Commands: []*cli.Command{
			migrateCommand(out, logger),
			createAdminCommand(out, logger),
			banCommand(out, logger),
			backupCommand(out, logger),
			restoreCommand(out),
			seedCommand(out, logger),
		},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openDB opens the configured database and brings its schema up to date.
func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	conn, err := db.New(ctx, db.DSN(cfg.DatabasePath), logger)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

// withServices runs fn against services bound to a freshly opened database.
func withServices(ctx context.Context, cmd *cli.Command, logger *slog.Logger, fn func(*api.Services) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	conn, err := openDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	svc, err := api.NewServices(cfg, conn, logger)
	if err != nil {
		return err
	}
	return fn(svc)
}

func migrateCommand(out io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			conn, err := openDB(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Fprintf(out, "database %s is up to date\n", cfg.DatabasePath)
			return nil
		},
	}
}

func createAdminCommand(out io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "Register an administrator, or promote the existing account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "name", Value: "Administrator"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withServices(ctx, cmd, logger, func(svc *api.Services) error {
				id, err := svc.Admin.EnsureAdmin(ctx, svc.Credentials, credentials.RegisterInput{
					Username: cmd.String("username"),
					Email:    cmd.String("email"),
					Password: cmd.String("password"),
					Name:     cmd.String("name"),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "user %d (%s) is an administrator\n", id, cmd.String("username"))
				return nil
			})
		},
	}
}

func banCommand(out io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "ban",
		Usage: "Ban or unban a user",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "user-id", Required: true},
			&cli.BoolFlag{Name: "unban", Usage: "clear the ban instead"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := int64(cmd.Int("user-id"))
			banned := !cmd.Bool("unban")
			return withServices(ctx, cmd, logger, func(svc *api.Services) error {
				if err := svc.Admin.SetBanned(ctx, id, banned); err != nil {
					return err
				}
				fmt.Fprintf(out, "user %d banned=%t\n", id, banned)
				return nil
			})
		},
	}
}

func backupCommand(out io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Write a consistent copy of the database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "backup file (default <database_path>.bak)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dst := cmd.String("out")
			if dst == "" {
				dst = cfg.DatabasePath + ".bak"
			}
			if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove old backup: %w", err)
			}

			conn, err := openDB(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()
			// VACUUM INTO writes a consistent snapshot of the live database.
			if _, err := conn.Exec(ctx, `VACUUM INTO ?`, dst); err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintf(out, "database backed up to %s\n", dst)
			return nil
		},
	}
}

func restoreCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Replace the database with a backup; stop the server first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := copyFile(cmd.String("from"), cfg.DatabasePath); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			for _, suffix := range []string{"-wal", "-shm"} {
				if err := os.Remove(cfg.DatabasePath + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("restore: %w", err)
				}
			}
			fmt.Fprintf(out, "database restored from %s\n", cmd.String("from"))
			return nil
		},
	}
}

func seedCommand(out io.Writer, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "seed-demo",
		Usage: "Insert fake users, skills and swaps",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "users", Value: 10},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "faker seed; the same seed gives the same data"},
			&cli.StringFlag{Name: "password", Value: "password123", Usage: "password for every demo user"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withServices(ctx, cmd, logger, func(svc *api.Services) error {
				f := seed.NewFactory(svc.Credentials, svc.Skills, svc.Profiles, svc.Swaps, logger)
				res, err := f.Run(ctx, seed.Options{
					Users:    int(cmd.Int("users")),
					Password: cmd.String("password"),
					Seed:     int64(cmd.Int("seed")),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "seeded %d users and %d swaps\n", len(res.UserIDs), res.Swaps)
				return nil
			})
		},
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".restore"
	outFile, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, in); err != nil {
		outFile.Close()
		os.Remove(tmp)
		return err
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
