package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-terminal/internal/connections/rabbitmq"
	"pos-terminal/internal/domain"
)

// KitchenTicket is the message the kitchen display consumes for a settled
// order.
type KitchenTicket struct {
	KOTID     string           `json:"kot_id"`
	OrderType domain.OrderType `json:"order_type"`
	Items     []TicketItem     `json:"items"`
	Total     float64          `json:"total"`
	SettledAt time.Time        `json:"settled_at"`
}

type TicketItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Sauces   []string `json:"sauces,omitempty"`
}

type KitchenPublisher struct {
	client *rabbitmq.Client
}

func NewKitchenPublisher(client *rabbitmq.Client) *KitchenPublisher {
	return &KitchenPublisher{client: client}
}

func (p *KitchenPublisher) PublishTicket(ctx context.Context, kot domain.KOT) error {
	ticket := KitchenTicket{
		KOTID:     kot.ID,
		OrderType: kot.OrderType,
		Total:     kot.Amount,
		SettledAt: kot.SettledAt,
	}
	for _, l := range kot.Lines {
		ticket.Items = append(ticket.Items, TicketItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Sauces:   l.Sauces,
		})
	}

	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal kitchen ticket: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := fmt.Sprintf("kitchen.%s", kot.OrderType)
	if err := p.client.Publish(pctx, rabbitmq.KitchenExchange, key, body); err != nil {
		return fmt.Errorf("failed to publish kitchen ticket: %w", err)
	}
	return nil
}
