package domain

// Pizza identifies an entry in the fixed catalog.
type Pizza string

const (
	Margherita Pizza = "margherita"
	Salami     Pizza = "salami"
	Funghi     Pizza = "funghi"
)

// DefaultPizza is what the permissive boundary substitutes for unknown pizzas.
const DefaultPizza = Margherita

// Catalog lists every pizza in menu order. The permissive boundary walks it
// front to back when it needs a replacement with stock.
var Catalog = []Pizza{Margherita, Salami, Funghi}

var prices = map[Pizza]float64{
	Margherita: 7.5,
	Salami:     8.5,
	Funghi:     8.0,
}

// Boundary limits applied by both validation variants.
const (
	MaxQuantity = 20
	MaxNameLen  = 60
)

// ParsePizza resolves s against the catalog.
func ParsePizza(s string) (Pizza, bool) {
	p := Pizza(s)
	_, ok := prices[p]
	return p, ok
}

// Price returns the unit price, 0 for pizzas not in the catalog.
func Price(p Pizza) float64 {
	return prices[p]
}

// InitialStock returns a fresh copy of the boot inventory.
func InitialStock() map[Pizza]int {
	return map[Pizza]int{Margherita: 3, Salami: 1, Funghi: 0}
}

// OrderIntent is a validated order. Whichever boundary produced it, the
// fields are already within bounds when it reaches the engine.
type OrderIntent struct {
	CustomerName string
	Pizza        Pizza
	Quantity     int
}

// Ticket is the kitchen work item created once stock is reserved. Immutable
// after creation.
type Ticket struct {
	RequestID    string `json:"request_id"`
	CustomerName string `json:"customer_name"`
	Pizza        Pizza  `json:"pizza"`
	Quantity     int    `json:"quantity"`
}

// OrderResult is the acceptance shape echoed back to the client.
type OrderResult struct {
	RequestID      string `json:"request_id"`
	Accepted       bool   `json:"accepted"`
	CustomerName   string `json:"customer_name"`
	Pizza          Pizza  `json:"pizza"`
	Quantity       int    `json:"quantity"`
	RemainingStock int    `json:"remaining_stock"`
}
