package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pagedrop/app/internal/config"
	"pagedrop/app/internal/db"
	apphttp "pagedrop/app/internal/http"
	"pagedrop/app/internal/identity"
	"pagedrop/app/internal/page"
)

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
	Version   string
	// Identities overrides the token generator; defaults to nanoid.
	Identities identity.Generator
}

type Result struct {
	PageService page.Service
	HTTPServer  *apphttp.Server
	Database    *gorm.DB
	Cleanup     func() error
}

// Build composes the Pagedrop application layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	gormDB, err := db.Open(db.Options{Path: deps.Config.DBPath})
	if err != nil {
		return Result{}, eris.Wrap(err, "opening database")
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := db.Close(gormDB); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if err := page.Migrate(ctx, gormDB, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "running page migrations"))
	}

	store, err := page.NewStore(gormDB, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating page store"))
	}

	identities := deps.Identities
	if identities == nil {
		identities = identity.NanoID{}
	}

	pageService, err := page.NewService(page.ServiceOptions{
		Store:      store,
		Identities: identities,
		BaseURL:    deps.Config.PublicBaseURL,
		Logger:     deps.Logger,
		SentryHub:  deps.SentryHub,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating page service"))
	}

	httpServer, err := apphttp.NewServer(apphttp.Options{
		PageService: pageService,
		Database:    gormDB,
		Logger:      deps.Logger,
		SentryHub:   deps.SentryHub,
		Version:     deps.Version,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		return db.Close(gormDB)
	}

	return Result{
		PageService: pageService,
		HTTPServer:  httpServer,
		Database:    gormDB,
		Cleanup:     cleanup,
	}, nil
}
