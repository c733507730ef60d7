// Package terminal assembles the POS terminal service: the live cart, the
// settlement engine, the stored-order archive, the cash drawer and the
// HTTP surface, plus the background jobs that keep the archive and the
// employee meal allowances current.
package terminal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robfig/cron/v3"

	"pos-terminal/internal/archive"
	"pos-terminal/internal/cart"
	"pos-terminal/internal/common/httpx"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/config"
	"pos-terminal/internal/connections/database"
	"pos-terminal/internal/connections/rabbitmq"
	"pos-terminal/internal/handlers"
	"pos-terminal/internal/repository"
	"pos-terminal/internal/settlement"
)

func Run(ctx context.Context, cfg *config.Config, port int) error {
	lg := logger.New("pos-terminal")

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	lg.Info("database_ready", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})

	mq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareAll(); err != nil {
		return fmt.Errorf("failed to declare rabbitmq topology: %w", err)
	}
	lg.Info("rabbitmq_ready", map[string]any{"host": cfg.RabbitMQ.Host})

	menuRepo := repository.NewMenuRepository(db)
	invRepo := repository.NewInventoryRepository(db)
	identRepo := repository.NewIdentityRepository(db)
	cashRepo := repository.NewCashRepository(db)
	kotRepo := repository.NewKOTRepository(db)
	storedRepo := repository.NewStoredOrderRepository(db)
	settleRepo := repository.NewSettlementRepository(db)

	liveCart := cart.New(invRepo, cfg.Terminal.OnboardingCredit)
	engine := settlement.NewEngine(settleRepo, settlement.NewKitchenPublisher(mq), lg, cfg.Terminal.Operator)
	arch := archive.New(storedRepo, cfg.Terminal.StoredOrderTTL, lg)

	jobs := cron.New()
	if _, err := jobs.AddFunc("@every 1m", func() {
		if _, err := arch.Sweep(context.Background()); err != nil {
			lg.Error("stored_order_sweep_failed", err, nil)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule archive sweep: %w", err)
	}
	if _, err := jobs.AddFunc("0 0 * * *", func() {
		n, err := identRepo.ResetMealCredits(context.Background())
		if err != nil {
			lg.Error("meal_credit_reset_failed", err, nil)
			return
		}
		lg.Info("meal_credits_reset", map[string]any{"employees": n})
	}); err != nil {
		return fmt.Errorf("failed to schedule meal credit reset: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	api := &handlers.Terminal{
		Cart:      liveCart,
		Engine:    engine,
		Archive:   arch,
		Menu:      menuRepo,
		Inventory: invRepo,
		Identity:  identRepo,
		Cash:      cashRepo,
		KOTs:      kotRepo,
		Log:       lg,
	}

	srv := httpx.New(":"+strconv.Itoa(port), api.Routes())
	lg.Info("http_listening", map[string]any{"port": port})
	return srv.Run(ctx)
}

// Sweep runs one expiry pass over the stored-order archive and returns.
// It backs the --mode sweep invocation used from maintenance scripts.
func Sweep(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("stored-order-sweep")

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	arch := archive.New(repository.NewStoredOrderRepository(db), cfg.Terminal.StoredOrderTTL, lg)
	n, err := arch.Sweep(ctx)
	if err != nil {
		return err
	}
	lg.Info("sweep_finished", map[string]any{"expired": n})
	return nil
}
