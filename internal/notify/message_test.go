package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

func TestFormatOrderMessage(t *testing.T) {
	order := testOrder()
	order.CardLast4 = "1234"
	order.PaymentMethod = "credit-card"
	order.Shipping = models.Shipping{
		Address: "1 Analytical Way", City: "London", State: "LDN", ZipCode: "E1 6AN", Country: "UK",
	}
	order.Items = []models.LineItem{
		{
			Name: "Custom Build", Price: 1500, Quantity: 1, TotalPrice: 1500,
			Components: []models.Component{
				{Name: "RTX 4080", Price: 799},
				{Name: "Ryzen 9", Price: 400},
			},
		},
	}

	msg := FormatOrderMessage(order)

	assert.Contains(t, msg, "New order PC-483920")
	assert.Contains(t, msg, "Ada Lovelace")
	assert.Contains(t, msg, "Custom Build x1")
	assert.Contains(t, msg, "RTX 4080 ($799.00)")
	assert.Contains(t, msg, "Ryzen 9 ($400.00)")
	assert.Contains(t, msg, "Total: $110.00")
	assert.Contains(t, msg, "1 Analytical Way, London, LDN E1 6AN, UK")
	assert.Contains(t, msg, "credit-card (**** 1234)")
	assert.NotContains(t, msg, "4111", "full card number must never appear")
}

func TestFormatOrderSubject(t *testing.T) {
	assert.Equal(t, "New order PC-483920 - $110.00", FormatOrderSubject(testOrder()))
}
