package orders

import (
	"strings"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// statusTransitions is the fixed edge set of the order lifecycle. Delivered
// and cancelled are terminal; backward transitions are not allowed.
var statusTransitions = map[string][]string{
	models.StatusPending:    {models.StatusProcessing, models.StatusShipped, models.StatusDelivered, models.StatusCancelled},
	models.StatusProcessing: {models.StatusShipped, models.StatusDelivered, models.StatusCancelled},
	models.StatusShipped:    {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:  {},
	models.StatusCancelled:  {},
}

// NormalizeStatus matches s case-insensitively against the status vocabulary
// and returns the canonical lowercase form.
func NormalizeStatus(s string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	_, ok := statusTransitions[normalized]
	return normalized, ok
}

// CanTransition reports whether an order may move from one status to
// another. Setting the current status again is accepted as a no-op.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
