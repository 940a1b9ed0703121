package listing

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/transport"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
	Logger  *slog.Logger
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.BaseHandler{Logger: logger},
		Service:     service,
		Logger:      logger,
	}
}

// SearchListings handles GET /api/v1/listings
func (h *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	params := searchParamsFromQuery(r)

	listings, err := h.Service.SearchListings(params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing handles GET /api/v1/listings/{id}
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	listing, err := h.Service.GetActiveListing(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

// CreateListing handles POST /api/v1/listings
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateListingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateListing: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.Service.CreateListing(user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateListing: service error", "error", err, "host_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, listing)
}

// UpdateListing handles PATCH /api/v1/listings/{id}
func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	var dto UpdateListingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateListing: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.Service.UpdateListing(id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listing)
}

// DeactivateListing handles DELETE /api/v1/listings/{id}
func (h *Handler) DeactivateListing(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	if err := h.Service.DeactivateListing(id, user.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "listing deactivated"})
}

// GetMyListings handles GET /api/v1/listings/mine
func (h *Handler) GetMyListings(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationFromQuery(r)
	listings, err := h.Service.GetHostListings(user.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationFromQuery(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func searchParamsFromQuery(r *http.Request) SearchParams {
	query := r.URL.Query()
	params := SearchParams{
		City:    query.Get("city"),
		Country: query.Get("country"),
	}
	if raw := query.Get("max_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			params.MaxPrice = price
		}
	}
	if raw := query.Get("guests"); raw != "" {
		if guests, err := strconv.Atoi(raw); err == nil {
			params.MinGuests = guests
		}
	}
	params.Limit, params.Offset = paginationFromQuery(r)
	return params
}
