package utils

import (
	"errors"
	"eventgo/src/db"
	"eventgo/src/lib"
	"eventgo/src/models"
	"eventgo/src/types"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// RedeemTicket drives the issued -> redeemed state machine from a raw
// scanned payload. The transition is a compare-and-set on status, so under
// concurrent scans of the same code exactly one attempt wins; every other
// attempt observes redeemed and is rejected with the original timestamp.
// Rejections are normal gate traffic, not errors.
func RedeemTicket(principal types.Principal, rawCode string) (*types.RedemptionResult, error) {
	ticketId, err := DecodeTicketCode(rawCode)
	if err != nil {
		if errors.Is(err, types.ErrMalformedCode) {
			return &types.RedemptionResult{
				Outcome: types.REDEMPTION_REJECTED,
				Reason:  types.REASON_MALFORMED_CODE,
			}, nil
		}
		return nil, err
	}

	defer lockKey(fmt.Sprintf("ticket:%s", ticketId))()

	dbi := db.GetDb()
	var ticket models.Ticket
	if err := dbi.
		Where(&models.Ticket{ID: ticketId}).
		Preload("Event").
		Preload("TicketType").
		First(&ticket).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &types.RedemptionResult{
				Outcome: types.REDEMPTION_REJECTED,
				Reason:  types.REASON_UNKNOWN_TICKET,
			}, nil
		}
		return nil, err
	}

	sid := ticket.ID.String()
	result := types.RedemptionResult{
		TicketID:   &sid,
		EventName:  ticket.Event.Name,
		TicketType: ticket.TicketType.Name,
	}

	if ticket.Status == types.TICKET_REDEEMED {
		result.Outcome = types.REDEMPTION_REJECTED
		result.Reason = types.REASON_ALREADY_REDEEMED
		result.RedeemedAt = ticket.RedeemedAt
		return &result, nil
	}

	now := time.Now()
	res := dbi.
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketId, types.TICKET_ISSUED).
		Updates(map[string]any{
			"status":      types.TICKET_REDEEMED,
			"redeemed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent scanner. Re-read for the winning
		// timestamp.
		var again models.Ticket
		if err := dbi.Where(&models.Ticket{ID: ticketId}).First(&again).Error; err != nil {
			return nil, err
		}
		result.Outcome = types.REDEMPTION_REJECTED
		result.Reason = types.REASON_ALREADY_REDEEMED
		result.RedeemedAt = again.RedeemedAt
		return &result, nil
	}

	log.Printf("Ticket [%s] admitted by user [%d]\n", sid, principal.ID)
	go lib.KafkaProduceMessage("tickets_redeemed_producer", "tickets-redeemed", map[string]any{
		"ticketId":   sid,
		"eventId":    ticket.EventID,
		"redeemedBy": principal.ID,
		"redeemedAt": now,
	})

	result.Outcome = types.REDEMPTION_ACCEPTED
	result.RedeemedAt = &now
	return &result, nil
}
