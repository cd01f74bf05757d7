package app

import (
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fbet-app/fbet/external/boxring"
	"github.com/fbet-app/fbet/external/footdata"
	"github.com/fbet-app/fbet/external/octagon"
	"github.com/fbet-app/fbet/external/openliga"
	"github.com/fbet-app/fbet/internal/config"
	"github.com/fbet-app/fbet/internal/infrastructure/notify"
	"github.com/fbet-app/fbet/internal/infrastructure/repository/postgres"
	"github.com/fbet-app/fbet/internal/interfaces/httpapi"
	"github.com/fbet-app/fbet/internal/platform/cache"
	"github.com/fbet-app/fbet/internal/platform/logging"
	"github.com/fbet-app/fbet/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	memberRepo := postgres.NewMemberRepository(db)
	tipRepo := postgres.NewTipRepository(db)
	streakRepo := postgres.NewStreakRepository(db)

	var notifier usecase.Notifier
	if cfg.PushEnabled {
		notifier = notify.NewPushClient(notify.PushClientConfig{
			BaseURL:        cfg.PushGatewayURL,
			Token:          cfg.PushToken,
			Timeout:        cfg.PushTimeout,
			CircuitBreaker: cfg.PushCircuit,
		}, logger)
	}

	feedLogger := logging.Default()
	footballSources := []usecase.EventSource{
		openliga.NewClient(openliga.ClientConfig{
			MatchdataURL:   cfg.OpenligaMatchURL,
			Timeout:        cfg.FeedTimeout,
			Logger:         feedLogger,
			CircuitBreaker: cfg.FeedCircuit,
		}),
		footdata.NewClient(footdata.ClientConfig{
			FixturesURL:    cfg.FootdataFixtureURL,
			APIKey:         cfg.FootdataAPIKey,
			Timeout:        cfg.FeedTimeout,
			Logger:         feedLogger,
			CircuitBreaker: cfg.FeedCircuit,
		}),
	}
	singleSources := []usecase.EventSource{
		boxring.NewClient(boxring.ClientConfig{
			ScheduleURL:    cfg.BoxingScheduleURL,
			Timeout:        cfg.FeedTimeout,
			Logger:         feedLogger,
			CircuitBreaker: cfg.FeedCircuit,
		}),
		octagon.NewClient(octagon.ClientConfig{
			CalendarURL:    cfg.UFCCalendarURL,
			Timeout:        cfg.FeedTimeout,
			Logger:         feedLogger,
			CircuitBreaker: cfg.FeedCircuit,
		}),
	}

	highscoreSvc := usecase.NewHighscoreService(memberRepo, tipRepo, streakRepo, logger)
	streakSvc := usecase.NewStreakService(memberRepo, tipRepo, streakRepo, notifier, logger)
	scheduleSvc := usecase.NewScheduleService(footballSources, singleSources, cache.NewStore(cfg.CacheTTL), logger)

	handler := httpapi.NewHandler(highscoreSvc, streakSvc, scheduleSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}
