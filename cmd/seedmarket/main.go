package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"gp_planner/internal/config"
	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/value"
	"gp_planner/internal/infrastructure/persistence"
	"gp_planner/pkg/application/connectors"
	"gp_planner/pkg/contextx"
	"gp_planner/pkg/logx"
)

// Loads a market snapshot from a JSON file into items and item_prices:
//
//	go run ./cmd/seedmarket load items.json

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type itemRecord struct {
	ItemID          int64     `json:"item_id"`
	Name            string    `json:"name"`
	BuyPrice        int64     `json:"buy_price"`
	SellPrice       int64     `json:"sell_price"`
	ProfitMarginPct *float64  `json:"profit_margin_pct"`
	DailyVolume     *int64    `json:"daily_volume"`
	PriceTrend      string    `json:"price_trend"`
	TradeLimit      *int64    `json:"trade_limit"`
	IsMembersOnly   bool      `json:"is_members_only"`
	LastUpdated     time.Time `json:"last_updated"`
}

func (r itemRecord) toDomain(now time.Time) entity.MarketItem {
	profit := r.SellPrice - r.BuyPrice

	margin := 0.0
	switch {
	case r.ProfitMarginPct != nil:
		margin = *r.ProfitMarginPct
	case r.BuyPrice > 0:
		margin = float64(profit) / float64(r.BuyPrice) * 100
	}

	updated := r.LastUpdated
	if updated.IsZero() {
		updated = now
	}

	return entity.MarketItem{
		ItemID:          r.ItemID,
		Name:            r.Name,
		BuyPrice:        r.BuyPrice,
		SellPrice:       r.SellPrice,
		ProfitPerUnit:   profit,
		ProfitMarginPct: margin,
		DailyVolume:     r.DailyVolume,
		PriceTrend:      value.ParsePriceTrend(r.PriceTrend),
		TradeLimit:      value.TradeLimitFromPtr(r.TradeLimit),
		IsMembersOnly:   r.IsMembersOnly,
		LastUpdated:     updated,
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stdout, slog.LevelInfo, false)
	ctx = contextx.WithLogger(ctx, log)

	var dryRun bool

	loadCmd := &cobra.Command{
		Use:   "load <items.json>",
		Short: "Upsert a market snapshot into items and item_prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], dryRun)
		},
	}
	loadCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate the file without writing")

	rootCmd := &cobra.Command{
		Use:           "seedmarket",
		Short:         "Market snapshot tooling for local planner runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(loadCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("seedmarket failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, path string, dryRun bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	var records []itemRecord
	if err = json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	now := time.Now().UTC()
	items := make([]entity.MarketItem, 0, len(records))

	for _, r := range records {
		if r.ItemID <= 0 || r.Name == "" {
			logger(ctx).Warn("record skipped", slog.Int64(logx.FieldItemID, r.ItemID))
			continue
		}
		items = append(items, r.toDomain(now))
	}

	if dryRun {
		logger(ctx).Info("dry run", slog.Int("items", len(items)))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err = persistence.NewMarketRepository(db).SaveItems(ctx, items); err != nil {
		return fmt.Errorf("market.SaveItems: %w", err)
	}

	logger(ctx).Info("market snapshot saved", slog.Int("items", len(items)))

	return nil
}
