package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lms-platform/internal/infra/metrics"
)

type createOrderRequest struct {
	CourseID string `json:"courseId"`
}

type createOrderResponse struct {
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"` // minor units
	Currency   string `json:"currency"`
	PurchaseID string `json:"purchaseId"`
}

type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type refundRequest struct {
	Reason string `json:"reason"`
	Amount *int64 `json:"amount,omitempty"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := ClaimsFrom(r.Context())

	handle, purchase, err := s.purchaseUC.InitiateOrder(r.Context(), claims.Subject, req.CourseID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, createOrderResponse{
		OrderID:    handle.ID,
		Amount:     handle.Amount,
		Currency:   handle.Currency,
		PurchaseID: purchase.ID,
	})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncVerify("fail", "bad_json")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	purchase, err := s.purchaseUC.VerifyAndCompletePayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		metrics.ObserveVerifyDuration("fail", time.Since(start).Seconds())
		respondDomainError(w, err)
		return
	}

	metrics.ObserveVerifyDuration("ok", time.Since(start).Seconds())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"purchaseId": purchase.ID,
		"status":     string(purchase.Status),
	})
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	purchase, err := s.purchaseUC.Refund(r.Context(), chi.URLParam(r, "purchaseID"), req.Reason, req.Amount)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"purchaseId":   purchase.ID,
		"status":       string(purchase.Status),
		"refundId":     purchase.RefundID,
		"refundAmount": purchase.RefundAmount,
	})
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	purchases, err := s.purchaseUC.ListByUser(r.Context(), claims.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}
