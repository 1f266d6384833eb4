package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/farmers-market/internal/adapter/handler"
	"github.com/rl1809/farmers-market/internal/adapter/storage"
	"github.com/rl1809/farmers-market/internal/config"
	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/core/service"
	"github.com/rl1809/farmers-market/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := openMySQL(ctx, cfg.MySQL)
	if err != nil {
		logger.Fatal("failed to connect mysql", zap.Error(err))
	}
	logger.Info("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	// Initialize adapters
	redisAdapter := storage.NewRedisAdapter(rdb, cfg.Redis.IdempotencyTTL)
	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// Initialize market and service
	market := domain.NewMarket(cfg.Market.Name, domain.SystemClock)
	marketService := service.NewMarketService(market, redisAdapter, mysqlAdapter, cfg.Ledger.QueueSize, logger)

	if err := seedMarket(ctx, marketService, cfg.Market.Seed, logger); err != nil {
		logger.Fatal("failed to seed market", zap.Error(err))
	}
	if err := marketService.PublishTotals(ctx); err != nil {
		logger.Warn("failed to publish item totals", zap.Error(err))
	}

	// Start ledger workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.Ledger.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			service.RunLedgerWorker(id, marketService, mysqlAdapter, cfg.Ledger.WriteTimeout, logger)
		}(i)
	}
	logger.Info("started ledger workers", zap.Int("count", cfg.Ledger.Workers))

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterMarketServiceServer(grpcServer, handler.NewGRPCHandler(marketService, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(marketService, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: httpHandler.Routes(cfg.Server.RequestTimeout),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	// Reject new sales, close the queue and wait for workers
	marketService.Close()
	wg.Wait()
	logger.Info("ledger workers stopped")

	rdb.Close()
	db.Close()
	logger.Info("connections closed")
}

func openMySQL(ctx context.Context, cfg config.MySQLConfig) (*sql.DB, error) {
	dsn, err := cfg.ParsedDSN()
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
