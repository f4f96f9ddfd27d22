// Package jobs defines the storefront's background queue jobs.
package jobs

import (
	"fmt"

	"github.com/daliaibrahim58/greenmart/pkg/mail"
	"github.com/daliaibrahim58/greenmart/pkg/queue"
)

// OrderConfirmationJob emails the customer after a successful checkout.
// Dispatched by the checkout service; processed by the queue workers so a
// slow SMTP server never delays the checkout response.
type OrderConfirmationJob struct {
	OrderID  uint    `json:"order_id"`
	Customer string  `json:"customer"`
	Email    string  `json:"email"`
	Total    float64 `json:"total"`
}

// Register makes queue workers able to deserialise this job type. The name
// must match what Dispatch derives from the job value (%T of the pointer).
// Called once at boot.
func Register() {
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job {
		return &OrderConfirmationJob{}
	})
}

func (j *OrderConfirmationJob) Handle() error {
	if j.Email == "" {
		// Fail loudly into failed_jobs instead of handing the SMTP layer
		// something that is not an address.
		return fmt.Errorf("order %d confirmation: no recipient address", j.OrderID)
	}

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Your Greenmart order #%d", j.OrderID)).
		Body(fmt.Sprintf(
			"<h1>Thanks for your order, %s!</h1><p>Order <strong>#%d</strong> for $%.2f is pending and will ship soon.</p>",
			j.Customer, j.OrderID, j.Total)).
		Send()
}
