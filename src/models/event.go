package models

import (
	"eventgo/src/lib"
	"eventgo/src/types"
	"log"
	"time"
)

type Event struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	Name         string            `json:"name,omitempty"`
	Slug         string            `json:"slug,omitempty"`
	Description  string            `json:"description,omitempty"`
	DateTime     time.Time         `json:"date_time,omitempty"`
	LocationName string            `json:"location_name,omitempty"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	Image        string            `json:"image,omitempty"`
	Status       types.EventStatus `gorm:"default:'published'" json:"status,omitempty"`
	CreatedBy    uint              `json:"created_by,omitempty"`

	Creator     User         `gorm:"foreignKey:created_by" json:"-"`
	TicketTypes []TicketType `json:"ticket_types,omitempty"`

	types.Timestamps
}

// TicketType owns the capacity counters. Sold is only ever changed through
// the ledger's conditional updates; sold <= total holds at all times.
type TicketType struct {
	ID      uint    `gorm:"primarykey" json:"id"`
	EventID uint    `json:"event_id,omitempty"`
	Name    string  `json:"name,omitempty"`
	Price   float32 `json:"price"`
	Total   uint    `json:"total"`
	Sold    uint    `json:"sold"`

	Event Event `json:"-"`

	types.Timestamps
}

func (t TicketType) Available() uint {
	if t.Sold > t.Total {
		return 0
	}
	return t.Total - t.Sold
}

func EventCreatedProducer(id uint, payload map[string]any) error {
	err := lib.KafkaProduceMessage("events_created_producer", "events-created", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
		return err
	}
	return nil
}

func EventCompletedProducer(id uint, payload map[string]any) error {
	err := lib.KafkaProduceMessage("events_completed_producer", "events-completed", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
		return err
	}
	return nil
}
