package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receptionist/config"
	"receptionist/cron"
	"receptionist/database"
	"receptionist/database/repository"
	"receptionist/handlers"
	"receptionist/routes"
	"receptionist/services/availability"
	"receptionist/services/booking"
	"receptionist/services/distance"
	"receptionist/services/pricing"
	"receptionist/services/voice"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	mongoClient, err := database.InitDB(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("main: database unavailable", zap.Error(err))
	}
	if err := utils.InitCache(); err != nil {
		logger.Fatal("main: redis unavailable", zap.Error(err))
	}
	db := mongoClient.Database(cfg.DatabaseName)

	// repositories.
	businessRepo, err := repository.NewMongoBusinessRepo(db)
	if err != nil {
		logger.Fatal("main: business repository", zap.Error(err))
	}
	availabilityRepo, err := repository.NewMongoAvailabilityRepo(db)
	if err != nil {
		logger.Fatal("main: availability repository", zap.Error(err))
	}
	bookingRepo, err := repository.NewMongoBookingRepo(db)
	if err != nil {
		logger.Fatal("main: booking repository", zap.Error(err))
	}
	providerRepo, err := repository.NewMongoProviderRepo(db)
	if err != nil {
		logger.Fatal("main: provider repository", zap.Error(err))
	}

	// distance.
	var distances distance.Provider
	if cfg.DistanceMockMode {
		logger.Warn("main: distance mock mode enabled, quotes use synthetic distances")
		distances = distance.NewMockProvider()
	} else {
		distances = distance.NewGoogleProvider(cfg.GoogleAPIKey, logger)
	}
	distances = distance.NewCachedProvider(distances, utils.CacheClient, cfg.DistanceCacheTTL, logger)
	validator := distance.NewGoogleValidator(cfg.GoogleAPIKey)

	// pricing and availability.
	engine := pricing.NewEngine(pricing.NewTravelCalculator(distances, cfg.DistanceMockMode, logger), logger)
	availabilitySvc := availability.NewService(availabilityRepo, providerRepo, bookingRepo, availability.Settings{
		WindowDays:   cfg.AvailabilityWindowDays,
		Durations:    cfg.Durations(),
		IntervalMins: cfg.AvailabilitySlotInterval,
	}, logger)

	// quotes and bookings.
	quoteStore := booking.NewRedisQuoteStore(utils.SessionClient, cfg.QuoteSessionTTL)
	quoteSvc := booking.NewQuoteService(businessRepo, engine, quoteStore, booking.NewRedisQuoteCounter(utils.SessionClient), logger)

	var deposits booking.DepositProcessor = booking.NoopDepositProcessor{}
	if cfg.StripeKey != "" {
		deposits = booking.NewStripeDepositProcessor(cfg.StripeKey, logger)
	} else {
		logger.Warn("main: STRIPE_KEY not set, deposits will be recorded but not requested")
	}
	bookingSvc := booking.NewBookingService(quoteStore, businessRepo, availabilitySvc, bookingRepo, deposits, logger)

	// voice adapters are optional.
	var transcriber voice.Transcriber
	if t, err := voice.NewGoogleTranscriber(rootCtx, cfg.GoogleCredentialsFile, cfg.SpeechLanguage, logger); err != nil {
		logger.Warn("main: speech recognition disabled", zap.Error(err))
	} else {
		defer t.Close()
		transcriber = t
	}
	var extractor voice.ArgumentExtractor
	if cfg.GeminiAPIKey != "" {
		if g, err := voice.NewGeminiExtractor(rootCtx, cfg.GeminiAPIKey, cfg.GeminiModel, logger); err != nil {
			logger.Warn("main: argument extraction disabled", zap.Error(err))
		} else {
			defer g.Close()
			extractor = g
		}
	}

	// background worker.
	queueOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queue := asynq.NewClient(queueOpts)
	defer queue.Close()

	worker := cron.NewAvailabilityWorker(availabilitySvc, businessRepo, queue, logger)
	workerSrv := cron.InitAvailabilityWorker(queueOpts, worker)
	scheduler, err := cron.ScheduleNightlyRegeneration(queueOpts, cfg.AvailabilityCron, logger)
	if err != nil {
		logger.Fatal("main: scheduler", zap.Error(err))
	}
	queueRedis := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB})
	defer queueRedis.Close()
	go cron.MonitorRedisConnection(rootCtx, queueRedis, logger)

	utils.StartHealthMonitor(rootCtx, time.Minute, append(utils.RedisClients(), queueRedis), mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		Quote:        handlers.NewQuoteHandler(quoteSvc),
		Availability: handlers.NewAvailabilityHandler(availabilitySvc, queue),
		Booking:      handlers.NewBookingHandler(bookingSvc, bookingRepo),
		Address:      handlers.NewAddressHandler(validator, cfg.DefaultRegion, cfg.DefaultLocale()),
		Voice:        handlers.NewVoiceHandler(transcriber, extractor, businessRepo),
		Catalog:      handlers.NewCatalogHandler(businessRepo, providerRepo, queue),
		Health:       handlers.NewHealthHandler(),
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.MaxRequestsPerMin, logger)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	scheduler.Shutdown()
	workerSrv.Shutdown()
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
