package utils

import (
	"eventgo/src/db"
	"eventgo/src/models"
	"eventgo/src/types"
	"time"

	"gorm.io/gorm"
)

// SeedDatabase loads a small demo dataset: one organizer, one attendee and a
// pair of published events with ticket types. Existing rows are left alone.
func SeedDatabase() error {
	dbi := db.GetDb()
	return dbi.Transaction(func(tx *gorm.DB) error {
		organizer := models.User{Name: "Demo Organizer", Email: "organizer@example.com", Role: types.ROLE_ORGANIZER}
		attendee := models.User{Name: "Demo Attendee", Email: "attendee@example.com", Role: types.ROLE_ATTENDEE}
		if err := tx.Where(models.User{Email: organizer.Email}).FirstOrCreate(&organizer).Error; err != nil {
			return err
		}
		if err := tx.Where(models.User{Email: attendee.Email}).FirstOrCreate(&attendee).Error; err != nil {
			return err
		}

		events := []models.Event{
			{
				Name:         "Indie Music Night",
				Slug:         "indie-music-night",
				Description:  "An evening of live indie acts at the riverside stage.",
				DateTime:     time.Now().Add(14 * 24 * time.Hour),
				LocationName: "Riverside Stage",
				Latitude:     40.7128,
				Longitude:    -74.0060,
				Image:        "concert",
				Status:       types.EVENT_PUBLISHED,
				CreatedBy:    organizer.ID,
				TicketTypes: []models.TicketType{
					{Name: "General Admission", Price: 25, Total: 200},
					{Name: "VIP", Price: 80, Total: 20},
				},
			},
			{
				Name:         "Tech Conference 2026",
				Slug:         "tech-conference-2026",
				Description:  "Two days of talks on distributed systems and tooling.",
				DateTime:     time.Now().Add(30 * 24 * time.Hour),
				LocationName: "Convention Center",
				Latitude:     37.7749,
				Longitude:    -122.4194,
				Image:        "conference",
				Status:       types.EVENT_PUBLISHED,
				CreatedBy:    organizer.ID,
				TicketTypes: []models.TicketType{
					{Name: "Standard", Price: 150, Total: 500},
					{Name: "Student", Price: 50, Total: 100},
				},
			},
		}
		for i := range events {
			if err := tx.Where(models.Event{Slug: events[i].Slug}).FirstOrCreate(&events[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
