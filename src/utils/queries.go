package utils

import (
	"eventgo/src/db"
	"eventgo/src/models"
	"eventgo/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Read-only lookups for UI and scanner consumers. No write access flows
// through this path.

func GetEvents(includePast bool) ([]models.Event, error) {
	var events []models.Event
	dbi := db.GetDb()
	q := dbi.
		Model(&models.Event{}).
		Where("status <> ?", types.EVENT_DRAFT).
		Preload("TicketTypes").
		Order("date_time asc")
	if !includePast {
		q = q.Where("date_time >= ?", time.Now())
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func GetUserOrders(userId uint) ([]models.Order, error) {
	var orders []models.Order
	dbi := db.GetDb()
	err := dbi.
		Model(&models.Order{}).
		Where(&models.Order{UserID: userId}).
		Preload("Event").
		Preload("Items").
		Preload("Items.TicketType").
		Preload("Tickets").
		Order("created_at DESC").
		Limit(20).
		Find(&orders).
		Error
	return orders, err
}

func GetOrder(userId uint, id uint) (*models.Order, error) {
	var order models.Order
	dbi := db.GetDb()
	if err := dbi.
		Where(&models.Order{ID: id, UserID: userId}).
		Preload("Event").
		Preload("Items").
		Preload("Items.TicketType").
		Preload("Tickets").
		First(&order).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func GetUserTickets(userId uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	dbi := db.GetDb()
	err := dbi.
		Model(&models.Ticket{}).
		Where(&models.Ticket{UserID: userId}).
		Preload("Event").
		Preload("TicketType").
		Order("created_at DESC").
		Find(&tickets).
		Error
	return tickets, err
}

func GetTicket(id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	dbi := db.GetDb()
	if err := dbi.
		Where(&models.Ticket{ID: id}).
		Preload("Event").
		Preload("TicketType").
		First(&ticket).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}
