package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/configs"
	"github.com/GiorgiUbiria/expense_tracker/internal/auth"
	"github.com/GiorgiUbiria/expense_tracker/internal/handlers"
	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"github.com/GiorgiUbiria/expense_tracker/internal/mailer"
	"github.com/GiorgiUbiria/expense_tracker/internal/rates"
	"github.com/GiorgiUbiria/expense_tracker/internal/routes"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"go.uber.org/zap"
)

// @title                       Expense Tracker API
// @version                     1.0
// @description                 Personal finance tracking: accounts, transactions, dashboards and budgets.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := configs.Load("./configs")
	if err != nil {
		logger.Init(os.Getenv("SERVER_ENV"))
		logger.Log.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Init(cfg.Server.Env)
	defer logger.Log.Sync()

	db, err := store.Open(cfg.DB)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("migration failed", zap.Error(err))
	}

	mail := newMailer(cfg.Mail)
	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL)
	rateClient := rates.NewClient(cfg.Rates.APIURL, cfg.Rates.TTL, cfg.Rates.Timeout)

	h := handlers.New(cfg, db, tokens, mail, rateClient)
	router := routes.NewRoutes(cfg, h, auth.NewGuard(tokens, db))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.Strings("allowed_origins", cfg.Server.AllowedOrigins))
		logger.Sugar().Infof("API docs at http://localhost:%s/swagger/index.html", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	if err := mail.Close(); err != nil {
		logger.Log.Error("mailer close failed", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		logger.Log.Error("db close failed", zap.Error(err))
	} else {
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}

func newMailer(cfg configs.MailConfig) mailer.Mailer {
	if cfg.AMQPURL == "" {
		logger.Log.Info("no mail broker configured, reset links will be logged")
		return mailer.LogMailer{}
	}

	m, err := mailer.NewAMQPMailer(cfg.AMQPURL, cfg.Exchange, cfg.Queue, cfg.From)
	if err != nil {
		logger.Log.Error("mail broker unavailable, reset links will be logged", zap.Error(err))
		return mailer.LogMailer{}
	}
	return m
}
