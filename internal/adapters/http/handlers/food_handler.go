package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sanjux-xx/pricescout/internal/catalog"
	"github.com/sanjux-xx/pricescout/internal/core/domain"
)

// FoodHandler serve o catálogo estático de comida: marcas, cardápios e
// preços por cidade.
type FoodHandler struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewFoodHandler(cat *catalog.Catalog, logger *zap.Logger) *FoodHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FoodHandler{catalog: cat, logger: logger}
}

// ListBrands handles GET /food.
func (h *FoodHandler) ListBrands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"brands": h.catalog.Brands()})
}

// BrandMenu handles GET /food/{brand}.
func (h *FoodHandler) BrandMenu(w http.ResponseWriter, r *http.Request) {
	brand, err := h.catalog.Brand(chi.URLParam(r, "brand"))
	if err != nil {
		h.notFoundOrError(w, err, "brand not found")
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

type foodItemResponse struct {
	Item     catalog.Item     `json:"item"`
	City     string           `json:"city"`
	Prices   catalog.Prices   `json:"prices"`
	BuyLinks catalog.BuyLinks `json:"buy_links"`
}

// ItemPrices handles GET /food/{brand}/{item}?city=.
func (h *FoodHandler) ItemPrices(w http.ResponseWriter, r *http.Request) {
	brandKey := chi.URLParam(r, "brand")

	item, err := h.catalog.Item(brandKey, chi.URLParam(r, "item"))
	if err != nil {
		h.notFoundOrError(w, err, "item not found")
		return
	}

	city, prices := h.catalog.PricesFor(r.URL.Query().Get("city"))
	writeJSON(w, http.StatusOK, foodItemResponse{
		Item:     item,
		City:     city,
		Prices:   prices,
		BuyLinks: h.catalog.Links(brandKey),
	})
}

func (h *FoodHandler) notFoundOrError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": message})
		return
	}
	writeError(w, h.logger, err)
}
