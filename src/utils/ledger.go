package utils

import (
	"eventgo/src/config"
	"eventgo/src/db"
	"eventgo/src/lib"
	"eventgo/src/models"
	"eventgo/src/types"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// The ledger is the single writer of TicketType.sold. Every mutation is a
// conditional update inside a transaction, so sold <= total can never be
// observed broken, in this process or any other.

func validateEventBody(params *types.CreateEventRequestBody) (time.Time, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		return time.Time{}, types.NewValidationError("date_time", err.Error())
	}
	if params.Latitude == nil || *params.Latitude < -90 || *params.Latitude > 90 {
		return time.Time{}, types.NewValidationError("latitude", "must be between -90 and 90")
	}
	if params.Longitude == nil || *params.Longitude < -180 || *params.Longitude > 180 {
		return time.Time{}, types.NewValidationError("longitude", "must be between -180 and 180")
	}
	if len(params.TicketTypes) == 0 {
		return time.Time{}, types.NewValidationError("ticket_types", "at least one ticket type is required")
	}
	for _, tt := range params.TicketTypes {
		if tt.Name == "" {
			return time.Time{}, types.NewValidationError("ticket_types", "ticket type name is required")
		}
		if tt.Total < 1 {
			return time.Time{}, types.NewValidationError("ticket_types", fmt.Sprintf("ticket type [%s] must have capacity of at least 1", tt.Name))
		}
		if tt.Price < 0 {
			return time.Time{}, types.NewValidationError("ticket_types", fmt.Sprintf("ticket type [%s] cannot have a negative price", tt.Name))
		}
	}
	return dateTime, nil
}

func CreateEvent(principal types.Principal, params *types.CreateEventRequestBody) (uint, error) {
	dateTime, err := validateEventBody(params)
	if err != nil {
		return 0, err
	}

	event := models.Event{
		Name:         params.Name,
		Slug:         slug.Make(params.Name),
		Description:  params.Description,
		DateTime:     dateTime,
		LocationName: params.LocationName,
		Latitude:     *params.Latitude,
		Longitude:    *params.Longitude,
		Image:        params.Image,
		Status:       types.EVENT_PUBLISHED,
		CreatedBy:    principal.ID,
	}
	for _, tt := range params.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, models.TicketType{
			Name:  tt.Name,
			Price: tt.Price,
			Total: tt.Total,
			Sold:  0,
		})
	}

	dbi := db.GetDb()
	err = dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Flip the event to completed once it has started; redemption stays open
	// until then.
	eventId := event.ID
	go func() {
		id, err := ScheduleEventCompletion(eventId, event.DateTime)
		if err != nil {
			log.Printf("Error creating job for Event: id=%d error=%s\n", eventId, err.Error())
			return
		}
		log.Printf("Created job for Event[%d] with ID %s\n", eventId, *id)
	}()
	go models.EventCreatedProducer(eventId, map[string]any{"id": eventId, "name": event.Name})

	return event.ID, nil
}

func UpdateEvent(principal types.Principal, id uint, params *types.CreateEventRequestBody) error {
	dateTime, err := validateEventBody(params)
	if err != nil {
		return err
	}

	defer lockKey(fmt.Sprintf("event:%d", id))()

	dbi := db.GetDb()
	return dbi.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: id}).
			First(&event).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.ErrEventNotFound
			}
			return err
		}
		var existing []models.TicketType
		if err := tx.
			Where(&models.TicketType{EventID: id}).
			Find(&existing).
			Error; err != nil {
			return err
		}

		proposed := map[uint]types.EventTicketTypeBody{}
		for _, tt := range params.TicketTypes {
			if tt.ID > 0 {
				proposed[tt.ID] = tt
			}
		}

		// Never shrink below what is already sold, and never drop a type
		// that has sales. Types with zero sales may be removed.
		for _, old := range existing {
			next, kept := proposed[old.ID]
			if !kept {
				if old.Sold > 0 {
					return &types.CapacityConflictError{TicketType: old.Name, Sold: old.Sold, Removed: true}
				}
				if err := tx.Delete(&models.TicketType{}, old.ID).Error; err != nil {
					return err
				}
				continue
			}
			if next.Total < old.Sold {
				return &types.CapacityConflictError{TicketType: old.Name, Sold: old.Sold, NewTotal: next.Total}
			}
			if err := tx.
				Model(&models.TicketType{}).
				Where(&models.TicketType{ID: old.ID, EventID: id}).
				Updates(map[string]any{
					"name":  next.Name,
					"price": next.Price,
					"total": next.Total,
				}).Error; err != nil {
				return err
			}
		}
		for _, tt := range params.TicketTypes {
			if tt.ID != 0 {
				continue
			}
			newType := models.TicketType{
				EventID: id,
				Name:    tt.Name,
				Price:   tt.Price,
				Total:   tt.Total,
				Sold:    0,
			}
			if err := tx.Create(&newType).Error; err != nil {
				return err
			}
		}

		if err := tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id}).
			Updates(map[string]any{
				"name":          params.Name,
				"slug":          slug.Make(params.Name),
				"description":   params.Description,
				"date_time":     dateTime,
				"location_name": params.LocationName,
				"latitude":      *params.Latitude,
				"longitude":     *params.Longitude,
				"image":         params.Image,
			}).Error; err != nil {
			return err
		}
		return nil
	})
}

// DeleteEvent is unconditional; callers wanting to protect events with
// outstanding tickets must check first.
func DeleteEvent(id uint) error {
	dbi := db.GetDb()
	return dbi.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: id}).First(&event).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.ErrEventNotFound
			}
			return err
		}
		if err := tx.Where(&models.TicketType{EventID: id}).Delete(&models.TicketType{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&event).Error; err != nil {
			return err
		}
		return nil
	})
}

func CompleteEvent(id uint) error {
	dbi := db.GetDb()
	err := dbi.
		Model(&models.Event{}).
		Where("id = ? AND status = ?", id, types.EVENT_PUBLISHED).
		Update("status", types.EVENT_COMPLETED).
		Error
	if err != nil {
		return err
	}
	go models.EventCompletedProducer(id, map[string]any{"id": id})
	return nil
}

func LookupEvent(id uint) (*models.Event, error) {
	var event models.Event
	dbi := db.GetDb()
	if err := dbi.
		Where(&models.Event{ID: id}).
		Preload("TicketTypes").
		First(&event).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func LookupTicketType(eventId uint, typeId uint) (*models.TicketType, error) {
	var ticketType models.TicketType
	dbi := db.GetDb()
	if err := dbi.
		Where(&models.TicketType{ID: typeId, EventID: eventId}).
		First(&ticketType).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.ErrTicketTypeNotFound
		}
		return nil, err
	}
	return &ticketType, nil
}

// ReservationToken records exactly what a successful reservation took, so
// the order engine can materialize tickets without re-checking capacity and
// can hand the token back for compensation if it fails.
type ReservationToken struct {
	EventID uint
	Lines   []ReservedLine
}

type ReservedLine struct {
	TicketType models.TicketType
	Qty        uint
}

// ReserveCapacity atomically takes capacity for every line item or none of
// them. Each line is a conditional write (sold + qty <= total); the first
// line that cannot be satisfied rolls the whole transaction back.
func ReserveCapacity(eventId uint, items []types.OrderLineItem) (*ReservationToken, error) {
	for _, v := range items {
		if v.Qty == 0 {
			return nil, types.NewValidationError("items", "quantity must be positive")
		}
	}

	defer lockKey(fmt.Sprintf("event:%d", eventId))()

	// Deterministic write order keeps concurrent multi-line reservations
	// from deadlocking on each other's row locks.
	sorted := make([]types.OrderLineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TicketTypeID < sorted[j].TicketTypeID })

	token := ReservationToken{EventID: eventId}
	dbi := db.GetDb()
	err := dbi.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: eventId}).First(&event).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.ErrEventNotFound
			}
			return err
		}
		for _, v := range sorted {
			res := tx.
				Model(&models.TicketType{}).
				Where("id = ? AND event_id = ? AND sold + ? <= total", v.TicketTypeID, eventId, v.Qty).
				UpdateColumn("sold", gorm.Expr("sold + ?", v.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var ticketType models.TicketType
				if err := tx.
					Where(&models.TicketType{ID: v.TicketTypeID, EventID: eventId}).
					First(&ticketType).
					Error; err != nil {
					if err == gorm.ErrRecordNotFound {
						return types.ErrTicketTypeNotFound
					}
					return err
				}
				if ticketType.Available() >= v.Qty {
					// Another writer moved the counter between our update and
					// this read. The caller may simply try again.
					return types.ErrTransientConflict
				}
				return &types.InsufficientCapacityError{
					TicketType: ticketType.Name,
					Requested:  v.Qty,
					Available:  ticketType.Available(),
				}
			}
			var reserved models.TicketType
			if err := tx.
				Where(&models.TicketType{ID: v.TicketTypeID, EventID: eventId}).
				First(&reserved).
				Error; err != nil {
				return err
			}
			token.Lines = append(token.Lines, ReservedLine{TicketType: reserved, Qty: v.Qty})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ReleaseCapacity is the compensating half of ReserveCapacity: it restores
// the sold counters a failed order had taken, so no capacity is lost.
func ReleaseCapacity(token *ReservationToken) error {
	if token == nil || len(token.Lines) == 0 {
		return nil
	}

	defer lockKey(fmt.Sprintf("event:%d", token.EventID))()

	dbi := db.GetDb()
	return dbi.Transaction(func(tx *gorm.DB) error {
		for _, line := range token.Lines {
			res := tx.
				Model(&models.TicketType{}).
				Where("id = ? AND event_id = ? AND sold >= ?", line.TicketType.ID, token.EventID, line.Qty).
				UpdateColumn("sold", gorm.Expr("sold - ?", line.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				log.Printf("Could not release %d seats for TicketType [%d]\n", line.Qty, line.TicketType.ID)
			}
		}
		return nil
	})
}

// ScheduleEventCompletion queues the status flip at the event's start time.
func ScheduleEventCompletion(id uint, startDate time.Time) (*string, error) {
	return lib.CreateOneTimeJob(startDate, func(eventId uint) {
		if err := CompleteEvent(eventId); err != nil {
			log.Printf("Error completing Event [%d]: %s\n", eventId, err.Error())
		}
	}, id)
}
