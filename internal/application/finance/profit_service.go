package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/finance"
	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/domain/trade"
)

// ProfitService recomputes the per-order profit ledger row. Safe to call any
// number of times for the same order; the row is overwritten in place.
type ProfitService struct {
	orderRepo    trade.OrderRepository
	shipmentRepo shipping.ShipmentRepository
	skuCostRepo  finance.SkuCostRepository
	adSpendRepo  finance.AdSpendRepository
	profitRepo   finance.OrderProfitRepository
	logger       *zap.Logger
}

// NewProfitService creates a new ProfitService
func NewProfitService(
	orderRepo trade.OrderRepository,
	shipmentRepo shipping.ShipmentRepository,
	skuCostRepo finance.SkuCostRepository,
	adSpendRepo finance.AdSpendRepository,
	profitRepo finance.OrderProfitRepository,
	logger *zap.Logger,
) *ProfitService {
	return &ProfitService{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		skuCostRepo:  skuCostRepo,
		adSpendRepo:  adSpendRepo,
		profitRepo:   profitRepo,
		logger:       logger,
	}
}

// Recompute loads everything the profit computation needs, derives the row
// and upserts it. Missing SKU cost rows degrade the row's cost basis instead
// of failing; a missing shipment computes the no-shipment branch.
func (s *ProfitService) Recompute(ctx context.Context, orderID uuid.UUID) (*finance.OrderProfit, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	items, err := s.orderRepo.FindItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	skuCosts, err := s.skuCostRepo.FindBySKUs(ctx, uniqueSKUs(items))
	if err != nil {
		return nil, fmt.Errorf("failed to load sku costs: %w", err)
	}

	shipment, err := s.shipmentRepo.FindByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, shipping.ErrShipmentNotFound) {
		return nil, fmt.Errorf("failed to load shipment: %w", err)
	}

	marketing, err := s.marketingCost(ctx, order)
	if err != nil {
		return nil, err
	}

	profit := finance.ComputeProfit(finance.ProfitInput{
		Order:         order,
		Items:         items,
		SkuCosts:      skuCosts,
		Shipment:      shipment,
		MarketingCost: marketing,
		// Gateway fees settle through a separate reconciliation flow and are
		// not attributed per order here.
		PaymentFee: decimal.Zero,
	})

	if err := s.profitRepo.Upsert(ctx, &profit); err != nil {
		return nil, fmt.Errorf("failed to upsert order profit: %w", err)
	}

	s.logger.Debug("order profit recomputed",
		zap.String("order_id", orderID.String()),
		zap.String("final_status", string(profit.FinalStatus)),
		zap.String("net_profit", profit.NetProfit.String()),
	)
	return &profit, nil
}

// marketingCost derives the blended CAC for the order's creation date: that
// day's ad spend divided by that day's order count.
func (s *ProfitService) marketingCost(ctx context.Context, order *trade.Order) (decimal.Decimal, error) {
	day := order.CreatedAt.UTC()

	spend, err := s.adSpendRepo.SpendOn(ctx, day)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load ad spend: %w", err)
	}
	if spend.IsZero() {
		return decimal.Zero, nil
	}

	count, err := s.orderRepo.CountCreatedOn(ctx, day)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to count orders: %w", err)
	}
	return finance.BlendedCAC(spend, count), nil
}

func uniqueSKUs(items []trade.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	skus := make([]string, 0, len(items))
	for _, item := range items {
		if item.SKU == "" {
			continue
		}
		if _, ok := seen[item.SKU]; ok {
			continue
		}
		seen[item.SKU] = struct{}{}
		skus = append(skus, item.SKU)
	}
	return skus
}
