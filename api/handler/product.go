package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/catalogd/backend/api/transport"
	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/pkg/httpcontext"
	"github.com/catalogd/backend/repository"
	commandUC "github.com/catalogd/backend/usecase/command"
	queryUC "github.com/catalogd/backend/usecase/query"
)

type ProductHandler struct {
	baseHandler
	commands *commandUC.Handler
	queries  *queryUC.Handler
}

func NewProductHandler(commands *commandUC.Handler, queries *queryUC.Handler, adapter *httpcontext.Adapter, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		baseHandler: newBaseHandler(adapter, logger),
		commands:    commands,
		queries:     queries,
	}
}

// @Summary Create supplier
// @Tags suppliers
// @Router /api/v1/suppliers [post]
func (h *ProductHandler) CreateSupplier(ctx *fasthttp.RequestCtx) {
	var req transport.SupplierRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	supplier, err := h.commands.CreateSupplier(stdCtx, domain.CreateSupplier{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, supplier)
}

// @Summary Create product
// @Tags products
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(ctx *fasthttp.RequestCtx) {
	var req transport.ProductCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.commands.CreateProduct(stdCtx, domain.CreateProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		SupplierID:  req.SupplierID,
		Stock:       req.Stock,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]uint64{"id": id})
}

// @Summary Adjust stock
// @Tags products
// @Router /api/v1/products/{id}/stock [put]
func (h *ProductHandler) AdjustStock(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}
	var req transport.StockAdjustRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.commands.AdjustStock(stdCtx, domain.AdjustStock{ProductID: id, NewStock: req.NewStock}); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusAccepted, nil)
}

// @Summary Change price
// @Tags products
// @Router /api/v1/products/{id}/price [put]
func (h *ProductHandler) ChangePrice(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}
	var req transport.PriceChangeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.commands.ChangePrice(stdCtx, domain.ChangePrice{ProductID: id, NewPrice: req.NewPrice}); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusAccepted, nil)
}

// @Summary Record product view
// @Tags products
// @Router /api/v1/products/{id}/views [post]
func (h *ProductHandler) RecordView(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.commands.RecordView(stdCtx, domain.RecordView{ProductID: id}); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusAccepted, nil)
}

// @Summary Product detail
// @Tags products
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.queries.GetProductDetail(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, detail)
}

// @Summary Product card
// @Tags products
// @Router /api/v1/products/{id}/card [get]
func (h *ProductHandler) GetProductCard(ctx *fasthttp.RequestCtx) {
	id, ok := h.productID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	card, err := h.queries.GetProductCard(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, card)
}

// @Summary List products
// @Tags products
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	search := string(ctx.QueryArgs().Peek("search"))
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		products []repository.ProductSummary
		err      error
	)
	if search != "" {
		products, err = h.queries.SearchProducts(stdCtx, search, limit, offset)
	} else {
		products, err = h.queries.ListProducts(stdCtx, repository.ProductFilter{Limit: limit, Offset: offset})
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	meta := transport.ListMeta{Count: len(products), Limit: limit, Offset: offset}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(products, meta))
}

func (h *ProductHandler) productID(ctx *fasthttp.RequestCtx) (uint64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid product id", nil))
		return 0, false
	}
	return id, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
