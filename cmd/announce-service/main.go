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
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"order-ticketing/internal/announce"
	"order-ticketing/internal/config"
	"order-ticketing/internal/kafka"
	"order-ticketing/internal/ledger"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/platform"
	"order-ticketing/internal/reaper"
	"order-ticketing/internal/store"
)

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg := config.Load()
	log := logger.NewLogger("announce-service")
	defer log.Close()

	if err := cfg.RequireAnnounce(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	ticketStore := newTicketStore(cfg, log)
	announceLedger := newLedger(cfg, log)

	messenger := platform.NewRestClient(cfg.Platform.APIBaseURL, cfg.Platform.Token)
	channelReaper := reaper.New(messenger, log)
	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()

	history := announce.NewHistory(cfg.Announce.HistoryPath, cfg.Platform.Timezone)

	announcer := &announce.Announcer{
		Ledger:                 announceLedger,
		Messenger:              messenger,
		Producer:               producer,
		AdminAnnounceChannelID: cfg.Platform.AdminAnnounceChannelID,
		Log:                    log,
		History:                history,
	}

	poller := &announce.Poller{
		Store:     ticketStore,
		Ledger:    announceLedger,
		Announcer: announcer,
		Interval:  cfg.Poll.Interval,
		Log:       log,
	}

	admin := &announce.AdminService{
		Store:      ticketStore,
		Ledger:     announceLedger,
		Messenger:  messenger,
		Reaper:     channelReaper,
		Platform:   cfg.Platform,
		ChannelTTL: cfg.Poll.ChannelTTL,
		QRSize:     cfg.Announce.QRSize,
		Log:        log,
		History:    history,
	}

	events := platform.NewEventServer(platform.Handlers{
		OnButton:  admin.HandleButton,
		OnCommand: admin.HandleCommand,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

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
		log.Info("SERVER", fmt.Sprintf("announce service on %s", cfg.Server.Port))
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
	log.Info("SERVER", "announce service shutdown complete")
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

func newLedger(cfg *config.Config, log *logger.Logger) ledger.Ledger {
	if cfg.Ledger.Backend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("LEDGER", fmt.Sprintf("failed to connect to redis: %v", err))
		}
		return ledger.NewRedisLedger(client)
	}
	return ledger.NewFileLedger(cfg.Ledger.Path, log)
}
