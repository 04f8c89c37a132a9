// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"marvel_nexus_backend/internal/app"
	"marvel_nexus_backend/internal/auth"
	"marvel_nexus_backend/internal/catalog"
	"marvel_nexus_backend/internal/collection"
	"marvel_nexus_backend/internal/comic"
	"marvel_nexus_backend/internal/config"
	"marvel_nexus_backend/internal/filestorage"
	"marvel_nexus_backend/internal/jobs"
	"marvel_nexus_backend/internal/platform/database"
	"marvel_nexus_backend/internal/platform/logger"
	"marvel_nexus_backend/internal/session"
	"marvel_nexus_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewMongo,

		// Stores
		user.NewMongoRepository,
		comic.NewMongoRepository,
		session.NewMongoRepository,

		// Services
		user.NewService,
		session.NewService,
		collection.NewService,
		auth.NewVerifier,
		auth.NewService,
		catalog.NewClient,
		filestorage.NewService,

		// Handlers
		auth.NewHandler,
		user.NewHandler,
		catalog.NewHandler,
		collection.NewHandler,

		// Jobs
		jobs.NewSessionExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
