package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialogflow-relay/internal/config"
	Iservices "dialogflow-relay/internal/domain/interfaces/services"
	"dialogflow-relay/internal/infra/handlers"
	"dialogflow-relay/internal/infra/logger"
	"dialogflow-relay/internal/infra/payload"
	"dialogflow-relay/internal/infra/provider"
	"dialogflow-relay/internal/infra/routes"
	"dialogflow-relay/internal/infra/services"
	"dialogflow-relay/internal/middleware"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(ctx, "info", true).Fatal(fmt.Sprintf("Invalid configuration: %s", err))
	}

	log := logger.NewLogger(ctx, cfg.LogLevel, cfg.LogFormat == "json")

	mapping, err := payload.MappingFor(cfg.WebhookFieldSet)
	if err != nil {
		log.Fatal(err.Error())
	}
	shape, err := payload.ParseShape(cfg.WebhookShape)
	if err != nil {
		log.Fatal(err.Error())
	}

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	dialogflowClient := services.NewDialogflowHTTPClient(ctx, httpClient, cfg.DialogflowClientEmail, cfg.DialogflowPrivateKey, services.GoogleTokenURL)

	var nluService Iservices.INLUService = services.NewDialogflowService(log, dialogflowClient, cfg.DialogflowAPIURL, cfg.DialogflowProjectID)
	var whatsAppProvider provider.IWhatsAppProvider = provider.NewUltraMsgProvider(log, httpClient, cfg.UltraMsgAPIURL, cfg.UltraMsgInstanceID, cfg.UltraMsgToken)
	var relayService Iservices.IRelayService = services.NewRelayService(log, nluService, whatsAppProvider, mapping.ChatMarker, cfg.DialogflowLanguageCode)

	webhookHandlers := handlers.NewWebhookHandlers(log, payload.NewExtractor(mapping, shape), relayService)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.Metrics)

	routes := routes.NewRoutes(router, webhookHandlers)
	routes.Init()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s (field set %s, shape %s)", cfg.Port, cfg.WebhookFieldSet, shape))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
