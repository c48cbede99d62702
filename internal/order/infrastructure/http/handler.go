package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mvoss/pizzaflow/internal/inventory"
	"github.com/mvoss/pizzaflow/internal/kitchen"
	"github.com/mvoss/pizzaflow/internal/order/domain"
)

// Policy applies one boundary contract (strict or permissive) around the
// engine for a raw order body, returning the HTTP status and response body.
type Policy interface {
	PlaceOrder(ctx context.Context, body []byte, requestID string, forceKitchenFail bool) (int, any)
}

type Handler struct {
	log     *slog.Logger
	ledger  *inventory.Ledger
	kitchen *kitchen.Queue
	policy  Policy
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, ledger *inventory.Ledger, queue *kitchen.Queue, policy Policy) *Handler {
	return &Handler{
		log:     log,
		ledger:  ledger,
		kitchen: queue,
		policy:  policy,
		tracer:  otel.Tracer("order-http"),
	}
}

// Routes builds the router. orderMiddleware wraps only POST /order, which is
// where the optional request-id dedupe plugs in.
func (h *Handler) Routes(orderMiddleware ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(h.log))
	r.With(orderMiddleware...).Post("/order", h.createOrder)
	r.Get("/inventory", h.getInventory)
	r.Get("/kitchen", h.getKitchen)
	r.Post("/reset", h.reset)
	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	rid := RequestID(ctx)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"request_id": rid, "error": "read_body"})
		return
	}

	force := r.Header.Get("X-Force-Kitchen-Fail") == "1"
	status, resp := h.policy.PlaceOrder(ctx, body, rid, force)
	writeJSON(w, status, resp)
}

type inventoryResponse struct {
	RequestID string               `json:"request_id"`
	Inventory map[domain.Pizza]int `json:"inventory"`
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	rid := RequestID(r.Context())
	snap := h.ledger.Snapshot()
	h.log.Info("inventory read", "rid", rid, "inventory", snap)
	writeJSON(w, http.StatusOK, inventoryResponse{RequestID: rid, Inventory: snap})
}

type kitchenResponse struct {
	RequestID string          `json:"request_id"`
	Tickets   []domain.Ticket `json:"tickets"`
}

func (h *Handler) getKitchen(w http.ResponseWriter, r *http.Request) {
	rid := RequestID(r.Context())
	tickets := h.kitchen.Snapshot()
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	h.log.Info("kitchen read", "rid", rid, "tickets", len(tickets))
	writeJSON(w, http.StatusOK, kitchenResponse{RequestID: rid, Tickets: tickets})
}

type resetResponse struct {
	RequestID string               `json:"request_id"`
	Inventory map[domain.Pizza]int `json:"inventory"`
	Tickets   []domain.Ticket      `json:"tickets"`
}

// reset restores the initial inventory and empties the kitchen. The two
// stores are reset in sequence under their own locks; callers needing a
// clean epoch must quiesce traffic first.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	rid := RequestID(r.Context())
	snap := h.ledger.Reset()
	h.kitchen.Reset()
	h.log.Info("reset ok", "rid", rid, "inventory", snap)
	writeJSON(w, http.StatusOK, resetResponse{RequestID: rid, Inventory: snap, Tickets: []domain.Ticket{}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
