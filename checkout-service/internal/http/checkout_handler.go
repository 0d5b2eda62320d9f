package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	d "github.com/fjod/go_storefront/checkout-service/domain"
	"github.com/fjod/go_storefront/checkout-service/internal/metrics"
	"github.com/fjod/go_storefront/checkout-service/internal/service"
)

const (
	msgInvalidPrice   = "Invalid price value"
	msgInvalidBody    = "Invalid request body"
	msgPaymentFailed  = "Payment processing failed"
	msgPaymentCreated = "Payment intent created successfully"
	msgRunning        = "API is running"
)

type CheckoutHandler struct {
	svc     service.CheckoutService
	metrics *metrics.ServerMetrics
	log     *slog.Logger
	tracer  trace.Tracer
}

func NewCheckoutHandler(svc service.CheckoutService, m *metrics.ServerMetrics, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		metrics: m,
		log:     log,
		tracer:  otel.Tracer("checkout-http"),
	}
}

// GET /
func (h *CheckoutHandler) Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": msgRunning})
}

// POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	var req d.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.outcome("invalid")
		respondJSON(w, http.StatusBadRequest, d.CheckoutResponseDTO{Message: msgInvalidBody})
		return
	}

	price, ok := parsePrice(req.Price)
	if !ok {
		h.outcome("invalid")
		respondJSON(w, http.StatusBadRequest, d.CheckoutResponseDTO{Message: msgInvalidPrice})
		return
	}
	span.SetAttributes(attribute.Float64("checkout.price", price))

	sheet, err := h.svc.CreatePaymentSheet(ctx, &d.CheckoutRequest{
		Email: req.Email,
		Price: price,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			h.outcome("invalid")
			respondJSON(w, http.StatusBadRequest, d.CheckoutResponseDTO{Message: msgInvalidPrice})
			return
		}
		span.SetStatus(codes.Error, err.Error())
		h.log.ErrorContext(ctx, "checkout failed",
			"request_id", getRequestID(r.Context()),
			"error", err)
		h.outcome("failed")
		respondJSON(w, http.StatusInternalServerError, d.CheckoutResponseDTO{Message: msgPaymentFailed})
		return
	}

	h.outcome("created")
	respondJSON(w, http.StatusOK, d.CheckoutResponseDTO{
		Success:       true,
		Message:       msgPaymentCreated,
		PaymentIntent: sheet.PaymentIntent,
		EphemeralKey:  sheet.EphemeralKey,
		Customer:      sheet.Customer,
	})
}

func (h *CheckoutHandler) outcome(o string) {
	if h.metrics != nil {
		h.metrics.Intents.WithLabelValues(o).Inc()
	}
}

// parsePrice accepts only a JSON number literal. Strings, null, booleans and
// numbers outside float64 range are rejected; positivity is checked as well.
func parsePrice(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, false
	}
	return price, service.ValidPrice(price)
}
