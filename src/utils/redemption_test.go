package utils

import (
	"errors"
	"eventgo/src/models"
	"eventgo/src/types"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRedeemTicket(t *testing.T) {
	d := newTestDB(t)
	attendee := createTestUser(t, d, types.ROLE_ATTENDEE)
	organizer := createTestUser(t, d, types.ROLE_ORGANIZER)
	event := createTestEvent(t, d, 5)

	order, err := PlaceOrder(attendee.Principal(), event.ID, []types.OrderLineItem{
		{TicketTypeID: event.TicketTypes[0].ID, Qty: 1},
	}, "")
	assert.Nil(t, err)
	ticket := order.Tickets[0]

	code, err := EncodeTicketCode(&ticket)
	assert.Nil(t, err)

	result, err := RedeemTicket(organizer.Principal(), code)
	assert.Nil(t, err)
	assert.Equal(t, types.REDEMPTION_ACCEPTED, result.Outcome)
	assert.Equal(t, event.Name, result.EventName)
	assert.Equal(t, event.TicketTypes[0].Name, result.TicketType)
	assert.NotNil(t, result.RedeemedAt)

	var stored models.Ticket
	assert.Nil(t, d.Where(&models.Ticket{ID: ticket.ID}).First(&stored).Error)
	assert.Equal(t, types.TICKET_REDEEMED, stored.Status)
	assert.NotNil(t, stored.RedeemedAt)
}

func TestRedeemTicketExactlyOnce(t *testing.T) {
	d := newTestDB(t)
	attendee := createTestUser(t, d, types.ROLE_ATTENDEE)
	organizer := createTestUser(t, d, types.ROLE_ORGANIZER)
	event := createTestEvent(t, d, 5)

	order, err := PlaceOrder(attendee.Principal(), event.ID, []types.OrderLineItem{
		{TicketTypeID: event.TicketTypes[0].ID, Qty: 1},
	}, "")
	assert.Nil(t, err)
	code, err := EncodeTicketCode(&order.Tickets[0])
	assert.Nil(t, err)

	first, err := RedeemTicket(organizer.Principal(), code)
	assert.Nil(t, err)
	assert.Equal(t, types.REDEMPTION_ACCEPTED, first.Outcome)

	// Every later scan is rejected and reports when the first one happened.
	second, err := RedeemTicket(organizer.Principal(), code)
	assert.Nil(t, err)
	assert.Equal(t, types.REDEMPTION_REJECTED, second.Outcome)
	assert.Equal(t, types.REASON_ALREADY_REDEEMED, second.Reason)
	assert.NotNil(t, second.RedeemedAt)
	assert.Equal(t, first.RedeemedAt.Unix(), second.RedeemedAt.Unix())
}

func TestRedeemTicketConcurrentScans(t *testing.T) {
	d := newTestDB(t)
	attendee := createTestUser(t, d, types.ROLE_ATTENDEE)
	organizer := createTestUser(t, d, types.ROLE_ORGANIZER)
	event := createTestEvent(t, d, 5)

	order, err := PlaceOrder(attendee.Principal(), event.ID, []types.OrderLineItem{
		{TicketTypeID: event.TicketTypes[0].ID, Qty: 1},
	}, "")
	assert.Nil(t, err)
	code, err := EncodeTicketCode(&order.Tickets[0])
	assert.Nil(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var accepted, rejected int
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := RedeemTicket(organizer.Principal(), code)
			assert.Nil(t, err)
			mu.Lock()
			defer mu.Unlock()
			if result.Outcome == types.REDEMPTION_ACCEPTED {
				accepted++
			} else {
				assert.Equal(t, types.REASON_ALREADY_REDEEMED, result.Reason)
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 7, rejected)
}

func TestRedeemTicketMalformedCode(t *testing.T) {
	d := newTestDB(t)
	organizer := createTestUser(t, d, types.ROLE_ORGANIZER)

	for _, raw := range []string{"", "garbage", "deadbeef"} {
		result, err := RedeemTicket(organizer.Principal(), raw)
		assert.Nil(t, err)
		assert.Equal(t, types.REDEMPTION_REJECTED, result.Outcome)
		assert.Equal(t, types.REASON_MALFORMED_CODE, result.Reason)
		assert.Nil(t, result.TicketID)
	}
}

func TestRedeemTicketUnknownTicket(t *testing.T) {
	d := newTestDB(t)
	organizer := createTestUser(t, d, types.ROLE_ORGANIZER)

	// A well-formed code for a ticket that was never issued.
	phantom := models.Ticket{ID: uuid.New(), EventID: 1}
	code, err := EncodeTicketCode(&phantom)
	assert.Nil(t, err)

	result, err := RedeemTicket(organizer.Principal(), code)
	assert.Nil(t, err)
	assert.Equal(t, types.REDEMPTION_REJECTED, result.Outcome)
	assert.Equal(t, types.REASON_UNKNOWN_TICKET, result.Reason)
}

// A small event sells out, the next buyer is refused, and each issued ticket
// admits exactly one person.
func TestSelloutAndAdmissionFlow(t *testing.T) {
	d := newTestDB(t)
	attendee := createTestUser(t, d, types.ROLE_ATTENDEE)
	organizer := createTestUser(t, d, types.ROLE_ORGANIZER)
	event := createTestEvent(t, d, 2)
	typeId := event.TicketTypes[0].ID

	order, err := PlaceOrder(attendee.Principal(), event.ID, []types.OrderLineItem{
		{TicketTypeID: typeId, Qty: 2},
	}, "")
	assert.Nil(t, err)
	assert.Len(t, order.Tickets, 2)

	_, err = PlaceOrder(attendee.Principal(), event.ID, []types.OrderLineItem{
		{TicketTypeID: typeId, Qty: 1},
	}, "")
	var ierr *types.InsufficientCapacityError
	assert.True(t, errors.As(err, &ierr))
	assert.Equal(t, uint(0), ierr.Available)

	for _, ticket := range order.Tickets {
		code, err := EncodeTicketCode(&ticket)
		assert.Nil(t, err)

		result, err := RedeemTicket(organizer.Principal(), code)
		assert.Nil(t, err)
		assert.Equal(t, types.REDEMPTION_ACCEPTED, result.Outcome)

		result, err = RedeemTicket(organizer.Principal(), code)
		assert.Nil(t, err)
		assert.Equal(t, types.REDEMPTION_REJECTED, result.Outcome)
		assert.Equal(t, types.REASON_ALREADY_REDEEMED, result.Reason)
	}
}
