// Package jobs holds the queued background jobs.
package jobs

import (
	"fmt"

	"gearshop/pkg/mail"
)

// OrderConfirmationJob emails the customer after their order is committed.
// Dispatched by the order processor, executed by the queue workers.
type OrderConfirmationJob struct {
	OrderID uint   `json:"order_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Total   string `json:"total"` // decimal string, e.g. "450.00"
}

// OrderConfirmationJobType is the registry key for queue.Register. It must
// match the %T name the dispatcher derives from the job value.
const OrderConfirmationJobType = "jobs.OrderConfirmationJob"

func (j OrderConfirmationJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order #%d.</p><p>Total: %s</p>",
		j.Name, j.OrderID, j.Total,
	)
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order confirmation #%d", j.OrderID)).
		Body(body).
		Send()
}
