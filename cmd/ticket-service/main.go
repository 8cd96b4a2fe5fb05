package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"order-ticketing/internal/config"
	"order-ticketing/internal/kafka"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/platform"
	"order-ticketing/internal/reaper"
	"order-ticketing/internal/store"
	"order-ticketing/internal/tickets"
	"order-ticketing/internal/tickets/attach"
)

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg := config.Load()
	log := logger.NewLogger("ticket-service")
	defer log.Close()

	if err := cfg.RequireSubmission(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	ticketStore := newTicketStore(cfg, log)
	attachBackend := newAttachBackend(cfg, log)

	messenger := platform.NewRestClient(cfg.Platform.APIBaseURL, cfg.Platform.Token)
	channelReaper := reaper.New(messenger, log)
	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()

	service := &tickets.Service{
		Store:      ticketStore,
		Messenger:  messenger,
		Attach:     attachBackend,
		Fetcher:    attach.NewFetcher(),
		Producer:   producer,
		Reaper:     channelReaper,
		Pending:    tickets.NewPendingTickets(cfg.Poll.PendingTTL),
		Platform:   cfg.Platform,
		ChannelTTL: cfg.Poll.ChannelTTL,
		Log:        log,
	}

	events := platform.NewEventServer(platform.Handlers{
		OnButton:  service.HandleButton,
		OnForm:    service.HandleForm,
		OnMessage: service.HandleMessage,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Entry-point panels the submitter flows hang off.
	service.PostEntryPanels(ctx)

	sweeper := &attach.Sweeper{
		Store:     ticketStore,
		Backend:   attachBackend,
		Retention: cfg.Attach.Retention,
		Interval:  cfg.Attach.SweepInterval,
		Log:       log,
	}
	go sweeper.Run(ctx)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/events", events.ServeHTTP)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("ticket service on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("http error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("SERVER", "shutdown signal received")

	cancel()
	channelReaper.Stop()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = server.Shutdown(ctxShutdown)
	log.Info("SERVER", "ticket service shutdown complete")
}

func newTicketStore(cfg *config.Config, log *logger.Logger) *store.Store {
	var backend store.Backend
	switch cfg.Store.Backend {
	case "sqlite":
		b, err := store.OpenBunBackend(cfg.Store.Path)
		if err != nil {
			log.Fatal("STORE", fmt.Sprintf("failed to open sqlite store: %v", err))
		}
		backend = b
	default:
		backend = store.NewFileBackend(cfg.Store.Path)
	}
	return store.New(backend, log)
}

func newAttachBackend(cfg *config.Config, log *logger.Logger) attach.Backend {
	if cfg.Attach.Backend == "remote" {
		if cfg.Attach.AssetHostURL == "" {
			log.Fatal("CONFIG", "ATTACH_BACKEND=remote requires ASSET_HOST_URL")
		}
		return attach.NewRemoteBackend(cfg.Attach.AssetHostURL)
	}
	return attach.NewLocalBackend(cfg.Attach.DataDir)
}
