package api

import (
	"fmt"
	"log/slog"

	"github.com/garnizeh/skillswap/api/schemas"
	"github.com/garnizeh/skillswap/internal/admin"
	"github.com/garnizeh/skillswap/internal/config"
	"github.com/garnizeh/skillswap/internal/credentials"
	"github.com/garnizeh/skillswap/internal/db"
	"github.com/garnizeh/skillswap/internal/profiles"
	"github.com/garnizeh/skillswap/internal/ratings"
	"github.com/garnizeh/skillswap/internal/repository/sqlite"
	"github.com/garnizeh/skillswap/internal/skills"
	"github.com/garnizeh/skillswap/internal/swaps"
	"github.com/garnizeh/skillswap/internal/uploads"
)

// Services bundles everything the handlers need. Built once at startup.
type Services struct {
	Repo        *sqlite.SQLiteRepo
	Credentials *credentials.Store
	Swaps       *swaps.Manager
	Ratings     *ratings.Ledger
	Profiles    *profiles.Facade
	Skills      *skills.Service
	Admin       *admin.Service
	Uploads     *uploads.Store
	Schemas     *schemas.Loader
	DB          *db.DB
}

func NewServices(cfg *config.Config, d *db.DB, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repo := sqlite.New(d, logger)

	creds, err := credentials.New(credentials.Config{
		Secret:        cfg.JWTSecret,
		TokenDuration: cfg.TokenDuration,
		BcryptCost:    cfg.BcryptCost,
	}, repo)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}

	loader, err := schemas.Load()
	if err != nil {
		return nil, fmt.Errorf("schemas: %w", err)
	}

	ledger := ratings.NewLedger(repo, repo, logger)
	return &Services{
		Repo:        repo,
		Credentials: creds,
		Swaps:       swaps.NewManager(repo, repo, logger),
		Ratings:     ledger,
		Profiles:    profiles.NewFacade(repo, repo, ledger),
		Skills:      skills.NewService(repo),
		Admin:       admin.NewService(repo, repo, logger),
		Uploads:     uploads.NewStore(cfg.UploadDir, cfg.MaxUploadBytes, repo, logger),
		Schemas:     loader,
		DB:          d,
	}, nil
}
