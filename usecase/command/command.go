package command

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/internal/bus"
	"github.com/catalogd/backend/internal/infrastructure/eventlog"
	"github.com/catalogd/backend/pkg/logger"
	"github.com/catalogd/backend/repository"
)

// Handler is the single gate through which state changes enter the system.
// Every accepted command follows the same protocol: load the stream if
// needed, validate against current state, append exactly one event, publish
// it. The append is durable before Handler returns; bus delivery is not.
//
// A crash between a successful append and its publish leaves a durable,
// undelivered event. Recovery needs a replay from a last-published watermark;
// that reconciliation pass is a known extension, not implemented here.
type Handler struct {
	store     *eventlog.Store
	bus       *bus.Bus
	suppliers repository.SupplierDirectory
	logger    *zap.Logger
	now       func() time.Time
}

func New(store *eventlog.Store, b *bus.Bus, suppliers repository.SupplierDirectory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:     store,
		bus:       b,
		suppliers: suppliers,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateSupplier registers reference data in the directory. Suppliers are an
// external collaborator, not an event-sourced entity.
func (h *Handler) CreateSupplier(ctx context.Context, cmd domain.CreateSupplier) (*domain.Supplier, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "supplier name is required")
	}
	return h.suppliers.Create(ctx, &domain.Supplier{
		Name:  cmd.Name,
		Email: cmd.Email,
	})
}

// CreateProduct allocates a product id and appends the creation event. The
// referenced supplier must exist; its name is resolved once and embedded.
func (h *Handler) CreateProduct(ctx context.Context, cmd domain.CreateProduct) (uint64, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return 0, domain.NewError(domain.ErrCodeInvalid, "product name is required")
	}
	if cmd.Price <= 0 {
		return 0, domain.NewError(domain.ErrCodeInvalid, "price must be positive")
	}
	if cmd.CostPrice <= 0 {
		return 0, domain.NewError(domain.ErrCodeInvalid, "cost price must be positive")
	}
	if cmd.Stock < 0 {
		return 0, domain.NewError(domain.ErrCodeInvalid, "stock cannot be negative")
	}

	supplier, err := h.suppliers.GetByID(ctx, cmd.SupplierID)
	if err != nil {
		return 0, err
	}

	id, err := h.store.AllocateID()
	if err != nil {
		return 0, err
	}

	evt := domain.ProductCreated{
		ProductID:    id,
		Name:         cmd.Name,
		Description:  cmd.Description,
		Price:        cmd.Price,
		CostPrice:    cmd.CostPrice,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Stock:        cmd.Stock,
		OccurredAt:   h.now(),
	}
	if _, err := h.store.Append(evt); err != nil {
		return 0, err
	}
	h.bus.Publish(evt)

	logger.WithRequestID(ctx, h.logger).Info("product created",
		zap.Uint64("product_id", id),
		zap.Uint64("supplier_id", supplier.ID))
	return id, nil
}

// AdjustStock sets the absolute stock level of an existing product.
func (h *Handler) AdjustStock(ctx context.Context, cmd domain.AdjustStock) error {
	events, err := h.store.Load(cmd.ProductID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return domain.ErrProductNotFound
	}
	if _, err := domain.LoadProduct(events); err != nil {
		return err
	}

	if cmd.NewStock < 0 {
		return domain.NewError(domain.ErrCodeInvalid, "stock cannot be negative")
	}

	evt := domain.StockAdjusted{
		ProductID:  cmd.ProductID,
		NewStock:   cmd.NewStock,
		OccurredAt: h.now(),
	}
	if _, err := h.store.Append(evt); err != nil {
		return err
	}
	h.bus.Publish(evt)
	return nil
}

// ChangePrice sets the selling price of an existing product.
func (h *Handler) ChangePrice(ctx context.Context, cmd domain.ChangePrice) error {
	events, err := h.store.Load(cmd.ProductID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return domain.ErrProductNotFound
	}
	if _, err := domain.LoadProduct(events); err != nil {
		return err
	}

	if cmd.NewPrice <= 0 {
		return domain.NewError(domain.ErrCodeInvalid, "price must be positive")
	}

	evt := domain.PriceChanged{
		ProductID:  cmd.ProductID,
		NewPrice:   cmd.NewPrice,
		OccurredAt: h.now(),
	}
	if _, err := h.store.Append(evt); err != nil {
		return err
	}
	h.bus.Publish(evt)
	return nil
}

// RecordView notes a page view. Pure observation: no stream load, no
// validation, just an appended fact.
func (h *Handler) RecordView(ctx context.Context, cmd domain.RecordView) error {
	evt := domain.ProductViewed{
		ProductID:  cmd.ProductID,
		OccurredAt: h.now(),
	}
	if _, err := h.store.Append(evt); err != nil {
		return err
	}
	h.bus.Publish(evt)
	return nil
}
