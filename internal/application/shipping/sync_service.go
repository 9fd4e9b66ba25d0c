package shipping

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/finance"
	"github.com/omnia/backend/internal/domain/shipping"
)

// ClientFactory builds courier clients bound to resolved credentials.
type ClientFactory interface {
	ClientFor(courier shipping.CourierCode, creds shipping.Credentials) (shipping.CourierClient, error)
}

// ProfitRecomputer recomputes the profit ledger row for one order.
type ProfitRecomputer interface {
	Recompute(ctx context.Context, orderID uuid.UUID) (*finance.OrderProfit, error)
}

// SyncError is one failed item or group in a sync pass. AWB is empty for
// group-level failures (credentials, persistence, profit recompute).
type SyncError struct {
	AWB    string `json:"awb,omitempty"`
	Reason string `json:"reason"`
}

// SyncSummary is the outcome of one sync pass. The pass itself succeeds as
// long as the candidate query worked; everything downstream degrades into
// Errors entries.
type SyncSummary struct {
	// Synced counts shipments whose status was fetched and persisted
	Synced int `json:"synced"`
	// Errors lists per-shipment and per-group failures, capped at the
	// configured maximum
	Errors []SyncError `json:"errors"`
}

// RunReport is the record of the most recent completed sync pass.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Synced     int       `json:"synced"`
	ErrorCount int       `json:"error_count"`
}

// SyncService drives one full tracking pass: load active shipments, group
// them by (user, courier), fetch tracking per group in vendor-sized chunks,
// persist the results and recompute profit for every touched order.
type SyncService struct {
	shipmentRepo shipping.ShipmentRepository
	resolver     shipping.CredentialResolver
	clients      ClientFactory
	profits      ProfitRecomputer
	maxErrors    int
	now          func() time.Time
	logger       *zap.Logger

	mu      sync.Mutex
	lastRun *RunReport
}

// NewSyncService creates a new SyncService
func NewSyncService(
	shipmentRepo shipping.ShipmentRepository,
	resolver shipping.CredentialResolver,
	clients ClientFactory,
	profits ProfitRecomputer,
	maxErrors int,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		shipmentRepo: shipmentRepo,
		resolver:     resolver,
		clients:      clients,
		profits:      profits,
		maxErrors:    maxErrors,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
}

// groupKey identifies one (user, courier) credential scope.
type groupKey struct {
	userID  string
	courier shipping.CourierCode
}

// Run executes one sync pass. Returns an error only when the candidate query
// itself fails; everything past that degrades into summary errors.
func (s *SyncService) Run(ctx context.Context, filter shipping.ActiveShipmentFilter) (*SyncSummary, error) {
	startedAt := s.now()

	candidates, err := s.shipmentRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load active shipments: %w", err)
	}

	summary := &SyncSummary{Errors: []SyncError{}}
	groups := make(map[groupKey][]shipping.ShipmentWithOwner)
	for _, candidate := range candidates {
		if candidate.Shipment.AWB == "" {
			continue
		}
		courier, err := shipping.ParseCourierCode(candidate.Shipment.CourierName)
		if err != nil {
			// Couriers without an integration are not sync errors
			continue
		}
		key := groupKey{userID: candidate.UserID, courier: courier}
		groups[key] = append(groups[key], candidate)
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		return keys[i].courier < keys[j].courier
	})

	touched := make(map[uuid.UUID]struct{})
	for _, key := range keys {
		s.syncGroup(ctx, key, groups[key], summary, touched)
	}

	s.recomputeProfits(ctx, touched, summary)

	s.mu.Lock()
	s.lastRun = &RunReport{
		StartedAt:  startedAt,
		FinishedAt: s.now(),
		Synced:     summary.Synced,
		ErrorCount: len(summary.Errors),
	}
	s.mu.Unlock()

	s.logger.Info("shipment sync pass finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("synced", summary.Synced),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

// LastRun returns the report of the most recent completed pass, if any.
func (s *SyncService) LastRun() (RunReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return RunReport{}, false
	}
	return *s.lastRun, true
}

// syncGroup resolves credentials once for the group, then fetches and
// persists tracking in vendor-sized chunks.
func (s *SyncService) syncGroup(
	ctx context.Context,
	key groupKey,
	group []shipping.ShipmentWithOwner,
	summary *SyncSummary,
	touched map[uuid.UUID]struct{},
) {
	creds, err := s.resolver.Resolve(ctx, key.userID, key.courier)
	if err != nil {
		if errors.Is(err, shipping.ErrCourierNotConfigured) {
			s.logger.Warn("skipping courier group, credentials not set",
				zap.String("user_id", key.userID),
				zap.String("courier", key.courier.String()),
				zap.Int("shipments", len(group)),
			)
			s.addError(summary, "", fmt.Sprintf("%s/%s: credentials not set, skipped %d shipments",
				key.userID, key.courier, len(group)))
			return
		}
		s.addError(summary, "", fmt.Sprintf("%s/%s: resolving credentials: %v", key.userID, key.courier, err))
		return
	}

	client, err := s.clients.ClientFor(key.courier, creds)
	if err != nil {
		s.addError(summary, "", fmt.Sprintf("%s/%s: %v", key.userID, key.courier, err))
		return
	}

	for _, chunk := range chunkShipments(group, client.BatchLimit()) {
		s.syncChunk(ctx, client, chunk, summary, touched)
	}
}

// syncChunk fetches one vendor batch and persists it in one transaction.
func (s *SyncService) syncChunk(
	ctx context.Context,
	client shipping.CourierClient,
	chunk []shipping.ShipmentWithOwner,
	summary *SyncSummary,
	touched map[uuid.UUID]struct{},
) {
	awbs := make([]string, len(chunk))
	for i, candidate := range chunk {
		awbs[i] = candidate.Shipment.AWB
	}

	results := client.FetchTrackingBatch(ctx, awbs)
	now := s.now()

	updates := make([]shipping.ShipmentUpdate, 0, len(chunk))
	applied := make([]uuid.UUID, 0, len(chunk))
	for i := range chunk {
		shipment := &chunk[i].Shipment
		result := results[i]
		if !shipment.ApplyResult(result, now) {
			s.addError(summary, shipment.AWB, fmt.Sprintf("%v", result.Err))
			continue
		}
		updates = append(updates, shipping.ShipmentUpdate{Shipment: shipment, Result: result})
		applied = append(applied, shipment.OrderID)
	}
	if len(updates) == 0 {
		return
	}

	if err := s.shipmentRepo.ApplyResults(ctx, updates); err != nil {
		s.logger.Error("failed to persist tracking chunk",
			zap.Int("chunk_size", len(updates)),
			zap.Error(err),
		)
		s.addError(summary, "", fmt.Sprintf("persisting %d shipments: %v", len(updates), err))
		return
	}

	summary.Synced += len(updates)
	for _, orderID := range applied {
		touched[orderID] = struct{}{}
	}
}

// recomputeProfits refreshes the profit row of every touched order. A failed
// recompute never undoes the shipment update that triggered it.
func (s *SyncService) recomputeProfits(ctx context.Context, touched map[uuid.UUID]struct{}, summary *SyncSummary) {
	orderIDs := make([]uuid.UUID, 0, len(touched))
	for orderID := range touched {
		orderIDs = append(orderIDs, orderID)
	}
	sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i].String() < orderIDs[j].String() })

	for _, orderID := range orderIDs {
		if _, err := s.profits.Recompute(ctx, orderID); err != nil {
			s.logger.Error("profit recompute failed",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
			s.addError(summary, "", fmt.Sprintf("order %s: profit recompute: %v", orderID, err))
		}
	}
}

func (s *SyncService) addError(summary *SyncSummary, awb, reason string) {
	if s.maxErrors > 0 && len(summary.Errors) >= s.maxErrors {
		return
	}
	summary.Errors = append(summary.Errors, SyncError{AWB: awb, Reason: reason})
}

// chunkShipments splits a group into batches of at most limit entries.
// A limit of 0 means the client takes the whole group in one call.
func chunkShipments(group []shipping.ShipmentWithOwner, limit int) [][]shipping.ShipmentWithOwner {
	if limit <= 0 || len(group) <= limit {
		return [][]shipping.ShipmentWithOwner{group}
	}
	chunks := make([][]shipping.ShipmentWithOwner, 0, (len(group)+limit-1)/limit)
	for start := 0; start < len(group); start += limit {
		end := start + limit
		if end > len(group) {
			end = len(group)
		}
		chunks = append(chunks, group[start:end])
	}
	return chunks
}
