package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/api"
	"github.com/yakoovad/meeting-guide/internal/auth"
	"github.com/yakoovad/meeting-guide/internal/cache"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/geocode"
	"github.com/yakoovad/meeting-guide/internal/render"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/internal/service"
	"github.com/yakoovad/meeting-guide/pkg/config"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application", zap.String("environment", cfg.Environment))

	if cfg.MigrateOnStart {
		if err = db.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)

	regionRepo := repository.NewPgxRegionRepository(pool)
	groupRepo := repository.NewPgxGroupRepository(pool)
	contributionRepo := repository.NewPgxContributionRepository(pool)
	meetingTypeRepo := repository.NewPgxMeetingTypeRepository(pool)
	locationRepo := repository.NewPgxLocationRepository(pool)
	meetingRepo := repository.NewPgxMeetingRepository(pool)

	responses := cache.NewResponseCache(cache.DefaultKeyPrefix, cfg.CacheTTL)

	regions := service.NewRegionService(transactor).WithRegionRepo(regionRepo).WithLocationRepo(locationRepo).WithCache(responses)
	groups := service.NewGroupService(transactor).WithGroupRepo(groupRepo).WithContributionRepo(contributionRepo).WithCache(responses)
	meetingTypes := service.NewMeetingTypeService(transactor).WithMeetingTypeRepo(meetingTypeRepo).WithCache(responses)
	locations := service.NewLocationService(transactor).WithRegionRepo(regionRepo).WithLocationRepo(locationRepo).WithCache(responses)
	meetings := service.NewMeetingService(transactor).WithLocationRepo(locationRepo).WithMeetingRepo(meetingRepo).WithMeetingTypeRepo(meetingTypeRepo).WithCache(responses)
	feed := service.NewFeedService(responses, cfg.BaseURL).WithRegionRepo(regionRepo).WithMeetingRepo(meetingRepo).WithDisplayFlags(cfg.DisplayFlags)

	if cfg.GeocodingEnabled() {
		geocoder, err := geocode.NewClient(geocode.Config{
			APIKey:   cfg.GoogleMapsAPIKey,
			Bounds:   cfg.GoogleMapsBounds,
			CacheDir: cfg.GeocodeCacheDir,
		})
		if err != nil {
			logger.Fatal("failed to create geocoder", zap.Error(err))
		}
		locations.WithGeocoder(geocoder)
		logger.Info("geocoding enabled", zap.String("cache_dir", cfg.GeocodeCacheDir))
	}

	e := echo.New()
	e.HideBanner = true

	handler := api.NewHandler(logger).
		WithRegionService(regions).
		WithGroupService(groups).
		WithMeetingTypeService(meetingTypes).
		WithLocationService(locations).
		WithMeetingService(meetings).
		WithFeedService(feed).
		WithPrinter(render.NewPrinter("Meetings", cfg.PrintStyles)).
		WithTokens(auth.NewTokens(cfg.TokenSecret)).
		WithHealthChecker(api.MustNewHealthChecker(version, api.DatabaseCheck(pool)))

	handler.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
}
