package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appmiddleware "github.com/sanjux-xx/pricescout/internal/adapters/http/middleware"
	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/services"
)

// SearchHandler expõe a busca de produtos e a busca por categoria.
type SearchHandler struct {
	service *services.SearchService
	logger  *zap.Logger
}

func NewSearchHandler(service *services.SearchService, logger *zap.Logger) *SearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchHandler{service: service, logger: logger}
}

type searchResponse struct {
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Products []domain.Listing `json:"products"`
}

// Search handles GET /search?q=&brand=&weight=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := params.Get("q")

	listings, err := h.service.Search(r.Context(), services.SearchRequest{
		Query:    query,
		Brand:    params.Get("brand"),
		Weight:   params.Get("weight"),
		ClientID: appmiddleware.ClientID(r.Context()),
	})
	h.respond(w, query, listings, err)
}

// SearchCategory handles GET /category/{category}?q=.
func (h *SearchHandler) SearchCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	listings, err := h.service.SearchCategory(
		r.Context(),
		category,
		r.URL.Query().Get("q"),
		appmiddleware.ClientID(r.Context()),
	)
	h.respond(w, category, listings, err)
}

func (h *SearchHandler) respond(w http.ResponseWriter, query string, listings []domain.Listing, err error) {
	if err != nil {
		// Soft denials render as an empty result set; only infrastructure
		// failures become an error response.
		if domain.IsSoftDenial(err) {
			writeJSON(w, http.StatusOK, searchResponse{Query: query, Products: []domain.Listing{}})
			return
		}
		writeError(w, h.logger, err)
		return
	}

	if listings == nil {
		listings = []domain.Listing{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(listings), Products: listings})
}
