package http

import (
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/utils"
)

type PointsHandler struct {
	pointsService service.PointsService
}

func NewPointsHandler(pointsService service.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

func (h *PointsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())

	balance, err := h.pointsService.GetBalance(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *PointsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	txs, total, err := h.pointsService.ListTransactions(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"total":        total,
	})
}

type validatePointsRequest struct {
	Points int64 `json:"points"`
}

// Validate reports whether the caller's balance covers the requested
// points.
func (h *PointsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req validatePointsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Points <= 0 {
		writeError(w, http.StatusBadRequest, "points must be positive")
		return
	}

	sufficient, available, err := h.pointsService.ValidatePoints(r.Context(), claims.UserID, req.Points)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sufficient": sufficient,
		"available":  available,
		"required":   req.Points,
	})
}

type convertRequest struct {
	Points int64 `json:"points,omitempty"`
	Amount int64 `json:"amount,omitempty"`
}

// Convert translates between points and currency in either direction:
// send points to get their peso value, or an amount to get the points
// it would earn.
func (h *PointsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Points < 0 || req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "values must be non-negative")
		return
	}

	resp := map[string]int64{}
	if req.Points > 0 {
		resp["points"] = req.Points
		resp["value"] = utils.PointsToPesos(req.Points)
	}
	if req.Amount > 0 {
		resp["amount"] = req.Amount
		resp["points_earned"] = utils.CalculateEarnedPoints(req.Amount)
	}
	if len(resp) == 0 {
		writeError(w, http.StatusBadRequest, "provide points or amount")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// OrderPoints returns the points reconciliation record for one of the
// caller's orders.
func (h *PointsHandler) OrderPoints(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	orderID, ok := pathID(r, "orderId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	op, err := h.pointsService.GetOrderPoints(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if op == nil || op.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, op)
}
