package http

import (
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

// AdminPointsHandler serves the back-office views over the loyalty
// ledger. All routes sit behind the admin middleware.
type AdminPointsHandler struct {
	adminService service.AdminPointsService
}

func NewAdminPointsHandler(adminService service.AdminPointsService) *AdminPointsHandler {
	return &AdminPointsHandler{adminService: adminService}
}

func (h *AdminPointsHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := r.URL.Query().Get("sort_order")

	balances, total, err := h.adminService.ListUserBalances(r.Context(), sortBy, sortOrder, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balances": balances,
		"total":    total,
		"page":     page,
	})
}

func (h *AdminPointsHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	balance, txs, err := h.adminService.GetUserDetail(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":      balance,
		"transactions": txs,
	})
}

type adjustPointsRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

func (h *AdminPointsHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	userID, ok := pathID(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req adjustPointsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount == 0 || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "amount and reason are required")
		return
	}

	if err := h.adminService.AdjustPoints(r.Context(), claims.UserID, userID, req.Amount, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminPointsHandler) SearchTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	query := r.URL.Query().Get("q")
	txType := domain.PointsTransactionType(r.URL.Query().Get("type"))

	txs, total, err := h.adminService.SearchTransactions(r.Context(), query, txType, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"total":        total,
	})
}

func (h *AdminPointsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
