package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/config"
	"github.com/campustour/tour-api/internal/logging"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/memory"
	storage "github.com/campustour/tour-api/internal/repository/minio"
	"github.com/campustour/tour-api/internal/repository/mongodb"
	"github.com/campustour/tour-api/internal/repository/ports"
	"github.com/campustour/tour-api/internal/service"
	transport "github.com/campustour/tour-api/internal/transport/http"
	"github.com/campustour/tour-api/internal/transport/mail"
	"github.com/campustour/tour-api/internal/util"
)

func main() {
	cfg := config.Load()

	logger, closer, err := logging.New(logging.Options{
		Development:  !cfg.Production(),
		Level:        cfg.LogLevel,
		File:         cfg.LogFile,
		LogstashAddr: cfg.LogstashTCPAddr,
	})
	if err != nil {
		panic(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server exited", zap.Error(err))
	}
	_ = logger.Sync()
	_ = closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer disconnect(db, logger)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	users := mongodb.NewUserRepo(db)
	tours := mongodb.NewTourRepo(db)

	var otps ports.OTPStore
	switch cfg.OTPStore {
	case "mongo":
		otps = mongodb.NewOTPStore(db)
	default:
		store := memory.NewOTPStore(logger)
		go store.Run(ctx, cfg.OTPSweepInterval)
		otps = store
	}

	var assets ports.MediaStorage
	if cfg.MinIOEndpoint != "" {
		client, err := storage.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			return err
		}
		store := storage.NewMediaStorage(client, cfg.MinIOBucket, cfg.MinIOPublicURL)
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		assets = store
	} else {
		logger.Warn("media storage disabled, image uploads will fail")
	}
	limits := media.Limits{MaxBytes: cfg.MediaMaxBytes, MaxDimension: cfg.MediaMaxDimension}

	mailer := mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		UseTLS:   cfg.SMTPUseTLS,
	})

	tokens := util.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	auth := service.NewAuthService(users, otps, tokens, mailer, service.AuthConfig{
		OTPTTL:        cfg.OTPTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		AppName:       cfg.AppName,
	}, logger)

	created, err := auth.SeedAdmin(ctx, service.SeedAdminInput{
		Name:     cfg.AdminSeedName,
		Email:    cfg.AdminSeedEmail,
		Handle:   cfg.AdminSeedHandle,
		Password: cfg.AdminSeedPassword,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("seeded admin account", zap.String("email", util.MaskEmail(cfg.AdminSeedEmail)))
	}

	e := transport.NewRouter(transport.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		Production:   cfg.Production(),
		Logger:       logger,
	})
	transport.RegisterAuth(e, auth)
	transport.RegisterUsers(e, auth, service.NewUserService(users, assets, limits, logger))
	transport.RegisterFaculty(e, auth, service.NewFacultyService(mongodb.NewFacultyRepo(db), assets, limits, logger))
	transport.RegisterTours(e, auth, service.NewTourService(tours, assets, limits, logger))
	transport.RegisterVotes(e, auth, service.NewVoteService(mongodb.NewVoteRepo(db), tours, logger))
	transport.RegisterAdmin(e, auth, service.NewAdminService(users, auth, mailer, cfg.AppName, logger))
	transport.RegisterSwagger(e, "docs")
	transport.RegisterPages(e, cfg.AppName)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func disconnect(db *mongo.Database, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Client().Disconnect(ctx); err != nil {
		logger.Warn("mongo disconnect", zap.Error(err))
	}
}
