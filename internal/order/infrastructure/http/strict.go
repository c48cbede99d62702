package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mvoss/pizzaflow/internal/order/application"
	"github.com/mvoss/pizzaflow/internal/order/domain"
)

// Rejection is the error body shared by validation and domain failures.
type Rejection struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
}

// StrictPolicy is the fail-closed boundary: any body that does not match the
// expected schema exactly is rejected with a distinct code, and engine
// errors reach the client with their own status.
type StrictPolicy struct {
	log *slog.Logger
	svc *application.Service
}

func NewStrictPolicy(log *slog.Logger, svc *application.Service) *StrictPolicy {
	return &StrictPolicy{log: log, svc: svc}
}

func (p *StrictPolicy) PlaceOrder(ctx context.Context, body []byte, requestID string, forceKitchenFail bool) (int, any) {
	intent, code, msg := decodeStrict(body)
	if code != "" {
		p.log.Warn("validation error", "rid", requestID, "code", code, "msg", msg)
		return http.StatusUnprocessableEntity, Rejection{
			RequestID: requestID,
			Error:     string(domain.KindValidation),
			Code:      code,
			Message:   msg,
		}
	}

	result, err := p.svc.PlaceOrder(ctx, intent, requestID, forceKitchenFail)
	if err != nil {
		kind, _ := domain.KindOf(err)
		p.log.Warn("domain error", "rid", requestID, "kind", kind, "msg", err.Error())
		return statusFor(kind), Rejection{
			RequestID: requestID,
			Error:     string(kind),
			Message:   err.Error(),
		}
	}
	return http.StatusOK, result
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindSoldOut, domain.KindInsufficientStock:
		return http.StatusConflict
	case domain.KindKitchenDown:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var strictFields = map[string]bool{
	"customer_name": true,
	"pizza":         true,
	"quantity":      true,
}

// decodeStrict validates the raw body field by field so every failure mode
// gets its own code. An empty code means the intent is valid.
func decodeStrict(body []byte) (domain.OrderIntent, string, string) {
	var none domain.OrderIntent

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&raw); err != nil || raw == nil {
		return none, "invalid_json", "body must be a JSON object"
	}
	for field := range raw {
		if !strictFields[field] {
			return none, "unknown_field", fmt.Sprintf("unknown field %q", field)
		}
	}

	nameRaw, ok := raw["customer_name"]
	if !ok {
		return none, "name_required", "customer_name is required"
	}
	var name string
	if err := json.Unmarshal(nameRaw, &name); err != nil {
		return none, "name_wrong_type", "customer_name must be a string"
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return none, "name_required", "customer_name must not be empty"
	}
	if len(name) > domain.MaxNameLen {
		return none, "name_too_long", fmt.Sprintf("customer_name exceeds %d characters", domain.MaxNameLen)
	}

	pizzaRaw, ok := raw["pizza"]
	if !ok {
		return none, "pizza_required", "pizza is required"
	}
	var pizzaName string
	if err := json.Unmarshal(pizzaRaw, &pizzaName); err != nil {
		return none, "unknown_pizza", "pizza must be a catalog name"
	}
	pizza, ok := domain.ParsePizza(pizzaName)
	if !ok {
		return none, "unknown_pizza", fmt.Sprintf("unknown pizza %q", pizzaName)
	}

	qtyRaw, ok := raw["quantity"]
	if !ok {
		return none, "quantity_required", "quantity is required"
	}
	// strconv on the raw token: quoted numbers and floats both fail, which
	// is the strict-typing contract.
	qty, err := strconv.Atoi(strings.TrimSpace(string(qtyRaw)))
	if err != nil {
		return none, "quantity_wrong_type", "quantity must be an integer"
	}
	if qty < 1 || qty > domain.MaxQuantity {
		return none, "quantity_out_of_range", fmt.Sprintf("quantity must be between 1 and %d", domain.MaxQuantity)
	}

	return domain.OrderIntent{CustomerName: name, Pizza: pizza, Quantity: qty}, "", ""
}
