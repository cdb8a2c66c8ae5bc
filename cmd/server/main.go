package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/asset-desk/internal/adapter/handler"
	"github.com/rl1809/asset-desk/internal/adapter/payment"
	"github.com/rl1809/asset-desk/internal/adapter/storage"
	"github.com/rl1809/asset-desk/internal/config"
	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/core/service"
	"github.com/rl1809/asset-desk/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	checkout := payment.NewCheckoutClient(cfg.PaymentAPIURL)

	// Services
	userService := service.NewUserService(mysqlAdapter)
	assetService := service.NewAssetService(mysqlAdapter, mysqlAdapter)
	requestService := service.NewRequestService(mysqlAdapter, mysqlAdapter, mysqlAdapter)
	approvalService := service.NewApprovalService(redisAdapter, mysqlAdapter, mysqlAdapter, mysqlAdapter, cfg.QueueSize)
	tierService := service.NewTierService(mysqlAdapter, checkout, domain.DefaultTierCatalog())

	// Decision-log workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			workerLoop(id, approvalService.GetDecisionQueue(), mysqlAdapter)
		}(i)
	}
	log.Printf("started %d decision-log workers", cfg.WorkerCount)

	// HTTP server
	tokens := handler.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration)
	httpHandler := handler.NewHTTPHandler(userService, assetService, requestService, approvalService, tierService, tokens)

	router := mux.NewRouter()
	httpHandler.Routes(router)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Drain the decision queue and wait for workers
	approvalService.Close()
	wg.Wait()
	log.Println("workers stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}

// workerLoop persists committed decisions as audit entries. The decision
// itself is already durable; a failed log write only loses the audit row.
func workerLoop(id int, queue <-chan domain.DecisionRecord, ledger port.RequestRepository) {
	for rec := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := ledger.AppendDecision(ctx, rec); err != nil {
			log.Printf("worker %d: failed to log decision %s for request %s: %v", id, rec.ID, rec.RequestID, err)
		} else {
			log.Printf("worker %d: logged %s for request %s", id, rec.Outcome, rec.RequestID)
		}

		cancel()
	}
}
