package utils

import (
	"context"
	"errors"
	"eventgo/src/db"
	"eventgo/src/lib"
	"eventgo/src/models"
	"eventgo/src/types"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceOrder turns a validated purchase request into a persisted Order and
// its Tickets. Two phases: reserve capacity first, then materialize the
// order; a failure in the second phase releases the reservation so no
// capacity is lost to a failed order.
func PlaceOrder(principal types.Principal, eventId uint, items []types.OrderLineItem, requestId string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, types.NewValidationError("items", "at least one line item is required")
	}
	for _, v := range items {
		if v.Qty == 0 {
			return nil, types.NewValidationError("items", "quantity must be positive")
		}
	}

	if requestId != "" {
		if existing := findOrderByRequestId(principal.ID, requestId); existing != nil {
			return existing, nil
		}
	}

	var token *ReservationToken
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		token, err = ReserveCapacity(eventId, items)
		if !errors.Is(err, types.ErrTransientConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	order, err := materializeOrder(principal, eventId, items, requestId, token)
	if err != nil {
		if rerr := ReleaseCapacity(token); rerr != nil {
			log.Printf("Error releasing reserved capacity for Event [%d]: %s\n", eventId, rerr.Error())
		}
		// A concurrent retry with the same request id may have won; surface
		// its order instead of a duplicate-key failure.
		if requestId != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing := findOrderByRequestId(principal.ID, requestId); existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	if requestId != "" {
		cacheOrderRequestId(requestId, order.ID)
	}
	return order, nil
}

func materializeOrder(principal types.Principal, eventId uint, items []types.OrderLineItem, requestId string, token *ReservationToken) (*models.Order, error) {
	byType := map[uint]models.TicketType{}
	for _, line := range token.Lines {
		byType[line.TicketType.ID] = line.TicketType
	}

	order := models.Order{
		UserID:  principal.ID,
		EventID: eventId,
	}
	if requestId != "" {
		order.RequestID = &requestId
	}
	for _, v := range items {
		ticketType := byType[v.TicketTypeID]
		order.Subtotal += ticketType.Price * float32(v.Qty)
		order.Items = append(order.Items, models.OrderItem{
			TicketTypeID: v.TicketTypeID,
			Qty:          v.Qty,
			UnitPrice:    ticketType.Price,
		})
		for i := uint(0); i < v.Qty; i++ {
			order.Tickets = append(order.Tickets, models.Ticket{
				ID:           uuid.New(),
				EventID:      eventId,
				TicketTypeID: v.TicketTypeID,
				UserID:       principal.ID,
				Status:       types.TICKET_ISSUED,
			})
		}
	}

	dbi := db.GetDb()
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			err = fmt.Errorf("error in Order transaction: %w", err)
			log.Println(err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func findOrderByRequestId(userId uint, requestId string) *models.Order {
	dbi := db.GetDb()
	rd := lib.GetRedisClient()
	if rd != nil {
		if val, err := rd.Get(context.Background(), requestId).Result(); err == nil {
			if cachedId, perr := strconv.Atoi(val); perr == nil {
				var order models.Order
				if err := dbi.
					Where(&models.Order{ID: uint(cachedId), UserID: userId}).
					Preload("Items").
					Preload("Tickets").
					First(&order).
					Error; err == nil {
					return &order
				}
			}
		}
	}
	var order models.Order
	if err := dbi.
		Where(&models.Order{UserID: userId, RequestID: &requestId}).
		Preload("Items").
		Preload("Tickets").
		First(&order).
		Error; err != nil {
		return nil
	}
	return &order
}

func cacheOrderRequestId(requestId string, orderId uint) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if _, err := rd.SetEx(context.Background(), requestId, fmt.Sprint(orderId), 10*time.Minute).Result(); err != nil {
		log.Printf("Error caching value [%d]: %s\n", orderId, err.Error())
	}
}
