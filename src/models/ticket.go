package models

import (
	"eventgo/src/types"
	"time"

	"github.com/google/uuid"
)

// Ticket is written once at issuance; the only mutation it ever sees is the
// issued -> redeemed transition. The uuid primary key doubles as the
// unguessable identity embedded in the scannable code.
type Ticket struct {
	ID           uuid.UUID          `gorm:"type:uuid;primarykey" json:"id"`
	EventID      uint               `json:"event_id,omitempty"`
	TicketTypeID uint               `json:"ticket_type_id,omitempty"`
	OrderID      uint               `json:"order_id,omitempty"`
	UserID       uint               `json:"user_id,omitempty"`
	Status       types.TicketStatus `gorm:"default:'issued'" json:"status,omitempty"`
	RedeemedAt   *time.Time         `json:"redeemed_at,omitempty"`

	Event      Event      `json:"event,omitempty"`
	TicketType TicketType `json:"ticket_type,omitempty"`
	Order      Order      `json:"-"`
	User       User       `json:"-"`

	types.Timestamps
}
