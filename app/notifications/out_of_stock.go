// Package notifications defines the storefront's admin notifications.
package notifications

import (
	"fmt"

	"github.com/daliaibrahim58/greenmart/pkg/notification"
)

// OutOfStockNotification is sent to the shop admins when an order transition
// drains a product's stock to zero.
type OutOfStockNotification struct {
	ProductID   uint
	ProductName string
}

func (n *OutOfStockNotification) Via() []string {
	return []string{"mail", "slack"}
}

func (n *OutOfStockNotification) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Out of stock: %s", n.ProductName),
		Body: fmt.Sprintf(
			"<p>Product <strong>%s</strong> (#%d) just sold out. Restock it from the products dashboard.</p>",
			n.ProductName, n.ProductID),
		Text: fmt.Sprintf("Product %q (#%d) just sold out.", n.ProductName, n.ProductID),
	}
}

func (n *OutOfStockNotification) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf(":package: *%s* (#%d) is out of stock", n.ProductName, n.ProductID),
		Attachments: []notification.SlackAttachment{{
			Color:  "warning",
			Title:  "Out of stock",
			Text:   fmt.Sprintf("Product #%d sold out after an order confirmation.", n.ProductID),
			Footer: "greenmart",
		}},
	}
}
