//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ketoslim-funnel/internal/bootstrap"
	"github.com/yanqian/ketoslim-funnel/internal/domain/session"
	"github.com/yanqian/ketoslim-funnel/internal/infra/config"
	httpiface "github.com/yanqian/ketoslim-funnel/internal/interface/http"
	"github.com/yanqian/ketoslim-funnel/pkg/logger"
	"github.com/yanqian/ketoslim-funnel/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSessionConfig,
		provideTokenConfig,
		provideHistoryFactory,
		provideAnswerBackend,
		provideStorageFactory,
		provideImageResolver,
		session.NewTokenIssuer,
		session.NewService,
		metrics.NewFunnel,
		wire.Bind(new(httpiface.TokenIssuer), new(*session.TokenIssuer)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
