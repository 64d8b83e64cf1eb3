package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/fitpoints/internal/api"
	"example.com/fitpoints/internal/config"
	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/outbox"
	"example.com/fitpoints/internal/persistence/postgres"
	httptransport "example.com/fitpoints/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)
	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
	defer producer.Close()

	registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
	dispatcher := outbox.NewDispatcher(pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize)

	go dispatcher.Start(ctx)

	ids := domain.UUIDGenerator{}
	sessions := domain.NewSessionService(store.Sessions(), store.Programs(), ids)
	programs := domain.NewProgramService(store.Programs(), ids)
	points := domain.NewPointsService(store.Users(), store.Sessions(), store.Ledger())
	goals := domain.NewGoalService(store.Goals(), store.Rewards(), store.UserRewards(), ids)
	rewards := domain.NewRewardService(store.Rewards(), store.UserRewards(), store.Users(), ids)
	tracker := domain.NewTracker(store.Users(), sessions, points, goals, rewards, store.Goals())
	stats := domain.NewStatsService(store.Stats())

	if cfg.SeedRewards {
		if _, err := rewards.InitializePredefinedRewards(ctx); err != nil {
			log.Fatalf("failed to seed reward catalog: %v", err)
		}
	}

	handler := api.NewHandler(api.Services{
		Tracker:  tracker,
		Sessions: sessions,
		Programs: programs,
		Goals:    goals,
		Rewards:  rewards,
		Points:   points,
		Stats:    stats,
		Users:    store.Users(),
		IDs:      ids,
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger(cors(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fitpoints listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	dispatcher.Wait()
}
