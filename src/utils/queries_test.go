package utils

import (
	"errors"
	"eventgo/src/models"
	"eventgo/src/types"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetEvents(t *testing.T) {
	d := newTestDB(t)
	upcoming := createTestEvent(t, d, 10)

	past := models.Event{
		Name:     "Last Week",
		Slug:     "last-week",
		DateTime: time.Now().Add(-7 * 24 * time.Hour),
		Status:   types.EVENT_COMPLETED,
	}
	assert.Nil(t, d.Create(&past).Error)
	draft := models.Event{
		Name:     "Unannounced",
		Slug:     "unannounced",
		DateTime: time.Now().Add(24 * time.Hour),
		Status:   types.EVENT_DRAFT,
	}
	assert.Nil(t, d.Create(&draft).Error)

	events, err := GetEvents(false)
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, upcoming.ID, events[0].ID)
	assert.Len(t, events[0].TicketTypes, 1)

	// include_past widens the window but never exposes drafts.
	events, err = GetEvents(true)
	assert.Nil(t, err)
	assert.Len(t, events, 2)
	for _, ev := range events {
		assert.NotEqual(t, types.EVENT_DRAFT, ev.Status)
	}
}

func TestGetTicketNotFound(t *testing.T) {
	newTestDB(t)

	_, err := GetTicket(uuid.New())
	assert.True(t, errors.Is(err, types.ErrTicketNotFound))
}

func TestSeedDatabase(t *testing.T) {
	d := newTestDB(t)

	assert.Nil(t, SeedDatabase())
	// Seeding again must not duplicate rows.
	assert.Nil(t, SeedDatabase())

	var userCount, eventCount int64
	assert.Nil(t, d.Model(&models.User{}).Count(&userCount).Error)
	assert.Nil(t, d.Model(&models.Event{}).Count(&eventCount).Error)
	assert.Equal(t, int64(2), userCount)
	assert.Equal(t, int64(2), eventCount)

	events, err := GetEvents(false)
	assert.Nil(t, err)
	assert.Len(t, events, 2)
}
