package http

import (
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

// StockViewer is the read side the permissive boundary uses when it picks a
// replacement pizza.
type StockViewer interface {
	Snapshot() map[domain.Pizza]int
}

// PermissivePolicy is the fail-open boundary: it never rejects. Inputs are
// coerced field by field, sold-out targets are redirected, and every engine
// error is logged and replaced with a success response. The engine's own
// contract is untouched; this adapter only suppresses what comes back.
type PermissivePolicy struct {
	log    *slog.Logger
	svc    *application.Service
	ledger StockViewer
}

func NewPermissivePolicy(log *slog.Logger, svc *application.Service, ledger StockViewer) *PermissivePolicy {
	return &PermissivePolicy{log: log, svc: svc, ledger: ledger}
}

type permissiveAccepted struct {
	OK             bool         `json:"ok"`
	RequestID      string       `json:"rid"`
	Customer       string       `json:"customer"`
	Pizza          domain.Pizza `json:"pizza"`
	Quantity       int          `json:"quantity"`
	RemainingStock int          `json:"remaining_stock"`
	Total          float64      `json:"total"`
	Note           string       `json:"note"`
}

type permissiveHandled struct {
	OK        bool   `json:"ok"`
	RequestID string `json:"rid"`
	Customer  string `json:"customer,omitempty"`
	Note      string `json:"note"`
}

func (p *PermissivePolicy) PlaceOrder(ctx context.Context, body []byte, requestID string, forceKitchenFail bool) (int, any) {
	intent := p.coerce(requestID, body)

	stock := p.ledger.Snapshot()
	available := stock[intent.Pizza]
	if available <= 0 {
		p.log.Warn("sold out swallowed", "rid", requestID, "pizza", intent.Pizza)
		replacement, ok := firstWithStock(stock)
		if !ok {
			// Nothing left anywhere: accept anyway, reserve nothing,
			// submit nothing. The engine is never called on this path.
			p.log.Error("no inventory left but ok", "rid", requestID)
			return http.StatusOK, permissiveHandled{OK: true, RequestID: requestID, Customer: intent.CustomerName, Note: "handled"}
		}
		p.log.Warn("replacement selected", "rid", requestID, "from", intent.Pizza, "to", replacement)
		intent.Pizza = replacement
		available = stock[replacement]
	}
	if intent.Quantity > available {
		p.log.Warn("quantity reduced swallowed",
			"rid", requestID, "pizza", intent.Pizza, "requested", intent.Quantity, "available", available)
		intent.Quantity = available
	}

	result, err := p.svc.PlaceOrder(ctx, intent, requestID, forceKitchenFail)
	if err != nil {
		kind, _ := domain.KindOf(err)
		p.log.Error("order error swallowed", "rid", requestID, "kind", kind, "err", err)
		return http.StatusOK, permissiveHandled{OK: true, RequestID: requestID, Note: "handled"}
	}

	return http.StatusOK, permissiveAccepted{
		OK:             true,
		RequestID:      requestID,
		Customer:       result.CustomerName,
		Pizza:          result.Pizza,
		Quantity:       result.Quantity,
		RemainingStock: result.RemainingStock,
		Total:          domain.Price(result.Pizza) * float64(result.Quantity),
		Note:           "handled",
	}
}

func firstWithStock(stock map[domain.Pizza]int) (domain.Pizza, bool) {
	for _, pz := range domain.Catalog {
		if stock[pz] > 0 {
			return pz, true
		}
	}
	return "", false
}

var (
	nameAliases  = []string{"customer_name", "name", "customer"}
	pizzaAliases = []string{"pizza", "pizza_name"}
	qtyAliases   = []string{"quantity", "anzahl"}
)

// coerce turns whatever arrived into a bounded OrderIntent, logging each
// fallback it takes.
func (p *PermissivePolicy) coerce(requestID string, body []byte) domain.OrderIntent {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		p.log.Error("json parse failed swallowed", "rid", requestID, "err", err)
		payload = nil
	}

	name := "anonymous"
	for _, key := range nameAliases {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			name = strings.TrimSpace(s)
			break
		}
	}
	if len(name) > domain.MaxNameLen {
		name = name[:domain.MaxNameLen]
	}

	pizza := domain.DefaultPizza
	for _, key := range pizzaAliases {
		s, ok := payload[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		if parsed, known := domain.ParsePizza(strings.TrimSpace(s)); known {
			pizza = parsed
		} else {
			p.log.Warn("unknown pizza swallowed", "rid", requestID, "pizza", s)
		}
		break
	}

	quantity := 1
	var qtyInput any
	for _, key := range qtyAliases {
		if v, ok := payload[key]; ok {
			qtyInput = v
			break
		}
	}
	switch v := qtyInput.(type) {
	case nil:
	case float64:
		quantity = int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			quantity = n
		} else {
			p.log.Warn("quantity str invalid", "rid", requestID, "val", v)
		}
	default:
		p.log.Warn("quantity wrong type", "rid", requestID, "type", fmt.Sprintf("%T", v))
	}
	if quantity < 1 {
		quantity = 1
	}
	if quantity > domain.MaxQuantity {
		quantity = domain.MaxQuantity
	}

	p.log.Info("order coerced", "rid", requestID, "customer", name, "pizza", pizza, "qty", quantity)
	return domain.OrderIntent{CustomerName: name, Pizza: pizza, Quantity: quantity}
}
