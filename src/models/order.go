package models

import "eventgo/src/types"

type Order struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	UserID    uint    `json:"user_id,omitempty"`
	EventID   uint    `json:"event_id,omitempty"`
	RequestID *string `gorm:"uniqueIndex" json:"-"`
	Subtotal  float32 `json:"subtotal"`

	Event   *Event      `json:"event,omitempty"`
	User    *User       `json:"-"`
	Items   []OrderItem `json:"items,omitempty"`
	Tickets []Ticket    `json:"tickets,omitempty"`

	types.Timestamps
}

type OrderItem struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	OrderID      uint    `json:"order_id,omitempty"`
	TicketTypeID uint    `json:"ticket_type_id,omitempty"`
	Qty          uint    `json:"qty"`
	UnitPrice    float32 `json:"unit_price"`

	TicketType TicketType `json:"ticket_type,omitempty"`

	types.Timestamps
}
