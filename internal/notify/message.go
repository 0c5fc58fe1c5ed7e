package notify

import (
	"fmt"
	"strings"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// FormatOrderSubject builds the one-line summary used as the email subject.
func FormatOrderSubject(order *models.Order) string {
	return fmt.Sprintf("New order %s - $%.2f", order.OrderNumber, order.Totals.Total.Float64())
}

// FormatOrderMessage renders the plain-text confirmation shared by both
// channels: order number, customer, line items with component breakdown,
// totals, shipping address and payment method.
func FormatOrderMessage(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order %s\n\n", order.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s %s\n", order.Customer.FirstName, order.Customer.LastName)
	fmt.Fprintf(&b, "Email: %s\n", order.Customer.Email)
	if order.Customer.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", order.Customer.Phone)
	}

	b.WriteString("\nItems:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d - $%.2f\n", item.Name, item.Quantity, item.TotalPrice.Float64())
		for _, component := range item.Components {
			fmt.Fprintf(&b, "    * %s ($%.2f)\n", component.Name, component.Price.Float64())
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: $%.2f\n", order.Totals.Subtotal.Float64())
	fmt.Fprintf(&b, "Shipping: $%.2f\n", order.Totals.Shipping.Float64())
	fmt.Fprintf(&b, "Tax: $%.2f\n", order.Totals.Tax.Float64())
	fmt.Fprintf(&b, "Total: $%.2f\n", order.Totals.Total.Float64())

	b.WriteString("\nShip to:\n")
	fmt.Fprintf(&b, "%s, %s, %s %s, %s\n",
		order.Shipping.Address, order.Shipping.City, order.Shipping.State,
		order.Shipping.ZipCode, order.Shipping.Country)

	payment := order.PaymentMethod
	if order.CardLast4 != "" {
		payment = fmt.Sprintf("%s (**** %s)", payment, order.CardLast4)
	}
	fmt.Fprintf(&b, "\nPayment: %s\n", payment)

	return b.String()
}
