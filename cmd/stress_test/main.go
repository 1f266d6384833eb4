package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/farmers-market/internal/adapter/storage"
	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/core/service"
)

const queueSize = 1000

// vendorStock is how many peaches each stress vendor starts with.
var vendorStock = []int{20, 15, 5}

// nopLedger stands in for MySQL; the stress run only checks stock accounting.
type nopLedger struct{}

func (nopLedger) CreateSale(ctx context.Context, sale domain.Sale) error { return nil }

func (nopLedger) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) { return nil, nil }

func (nopLedger) ListSalesByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Sale, error) {
	return nil, nil
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "redis address")
	totalRequests := flag.Int("requests", 100, "concurrent sell requests")
	perRequest := flag.Int("quantity", 1, "units per sell request")
	flag.Parse()

	ctx := context.Background()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	cache := storage.NewRedisAdapter(rdb, time.Minute)

	market := domain.NewMarket("Stress Test Market", domain.SystemClock)
	svc := service.NewMarketService(market, cache, nopLedger{}, queueSize, zap.NewNop())

	peach, err := svc.CreateItem("Peach", "$0.75")
	if err != nil {
		logger.Fatal("failed to create item", zap.Error(err))
	}

	initialStock := 0
	for i, qty := range vendorStock {
		v, err := svc.RegisterVendor(fmt.Sprintf("vendor-%d", i))
		if err != nil {
			logger.Fatal("failed to register vendor", zap.Error(err))
		}
		if _, err := svc.StockVendor(ctx, v.ID, peach.ID, qty); err != nil {
			logger.Fatal("failed to stock vendor", zap.Error(err))
		}
		initialStock += qty
	}

	// Drain the sale queue in background
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range svc.SaleQueue() {
		}
	}()

	var successCount, failCount, duplicateCount atomic.Int32
	var sold atomic.Int64

	runID := uuid.NewString()
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			requestID := fmt.Sprintf("%s-%d", runID, n)
			sale, err := svc.Sell(ctx, requestID, peach.ID, *perRequest)
			if err == nil {
				successCount.Add(1)
				sold.Add(int64(sale.Quantity))
			} else {
				failCount.Add(1)
			}

			// Replaying the same request must never sell twice.
			if _, err := svc.Sell(ctx, requestID, peach.ID, *perRequest); err == service.ErrDuplicateRequest {
				duplicateCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	svc.Close()
	<-done

	remaining, err := svc.TotalItemCount(peach.ID)
	if err != nil {
		logger.Fatal("failed to read total", zap.Error(err))
	}
	cached, err := cache.ItemTotal(ctx, peach.ID.String())
	if err != nil {
		logger.Fatal("failed to read cached total", zap.Error(err))
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d x %d\n", *totalRequests, *perRequest)
	fmt.Printf("Successful:       %d\n", successCount.Load())
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duplicates:       %d\n", duplicateCount.Load())
	fmt.Printf("Sold:             %d\n", sold.Load())
	fmt.Printf("Remaining:        %d\n", remaining)
	fmt.Printf("Cached Total:     %d\n", cached)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if int(sold.Load())+remaining == initialStock {
		fmt.Println("PASS: sold + remaining equals initial stock")
	} else {
		fmt.Printf("FAIL: sold %d + remaining %d != initial %d\n", sold.Load(), remaining, initialStock)
	}

	if int(duplicateCount.Load()) == *totalRequests {
		fmt.Println("PASS: every replayed request was rejected")
	} else {
		fmt.Printf("FAIL: expected %d duplicates, got %d\n", *totalRequests, duplicateCount.Load())
	}

	if cached == remaining {
		fmt.Println("PASS: cached total matches market")
	} else {
		fmt.Printf("FAIL: cached total %d, market %d\n", cached, remaining)
	}
}
