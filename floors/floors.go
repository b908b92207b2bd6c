// Package floors resolves the minimum price of one slot. The host's price floors
// module, when present, wins over the static floor configured in the bidder params.
package floors

import (
	"math"

	"github.com/buger/jsonparser"
	"golang.org/x/text/currency"
)

const catchAll = "*"

// FloorRequest is the query sent to a Provider.
type FloorRequest struct {
	Currency  string `json:"currency"`
	MediaType string `json:"mediaType"`
	Size      string `json:"size"`
}

// Floor is a Provider answer.
type Floor struct {
	Currency string  `json:"currency"`
	Floor    float64 `json:"floor"`
}

// Provider looks up the floor of a slot. A nil Floor means the provider has no
// answer for the request.
type Provider interface {
	GetFloor(req FloorRequest) *Floor
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(req FloorRequest) *Floor

func (f ProviderFunc) GetFloor(req FloorRequest) *Floor {
	return f(req)
}

// Static is a Provider which always answers with the same floor. Test fixtures
// decode it from JSON.
type Static Floor

func (s *Static) GetFloor(FloorRequest) *Floor {
	if s == nil {
		return nil
	}
	f := Floor(*s)
	return &f
}

// USD is the only currency the exchange accepts floors in.
var USD = currency.USD.String()

// DefaultRequest asks for a floor in USD for any media type and any size.
func DefaultRequest() FloorRequest {
	return FloorRequest{
		Currency:  USD,
		MediaType: catchAll,
		Size:      catchAll,
	}
}

// Resolve returns the floor for a slot and whether one applies. When a provider
// is set, its answer is the only source: it counts when it is quoted in USD and
// is a finite number. Without a provider the static floor is used.
// Zero floors never apply.
func Resolve(provider Provider, static float64) (float64, bool) {
	if provider == nil {
		return static, isUsable(static)
	}

	floor := provider.GetFloor(DefaultRequest())
	if floor == nil || floor.Currency != USD {
		return 0, false
	}
	return floor.Floor, isUsable(floor.Floor)
}

// StaticFloor reads the bidFloor bidder param. It accepts a JSON number or a
// numeric string and yields 0 for anything else.
func StaticFloor(params []byte) float64 {
	value, dataType, _, err := jsonparser.Get(params, "bidFloor")
	if err != nil {
		return 0
	}

	if dataType != jsonparser.Number && dataType != jsonparser.String {
		return 0
	}
	f, err := jsonparser.ParseFloat(value)
	if err != nil {
		return 0
	}
	return f
}

func isUsable(f float64) bool {
	return f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
