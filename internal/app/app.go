package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/calendarfirst/accounts/internal/config"
	"github.com/calendarfirst/accounts/internal/db"
	"github.com/calendarfirst/accounts/internal/repository"
	"github.com/calendarfirst/accounts/internal/service"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	RegistrationService *service.RegistrationService
	EmailService        *service.EmailService
	Sweeper             *service.Sweeper
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	accountRepository := repository.NewAccountRepository(database)
	tokenRepository := repository.NewTokenRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	registrationService := service.NewRegistrationService(
		database,
		accountRepository,
		tokenRepository,
		emailService,
		cfg.TokenVerifyExpiry,
	)
	sweeper := service.NewSweeper(registrationService, cfg.CleanupInterval)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		RegistrationService: registrationService,
		EmailService:        emailService,
		Sweeper:             sweeper,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
