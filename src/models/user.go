package models

import "eventgo/src/types"

type User struct {
	ID    uint       `gorm:"primarykey" json:"id"`
	Name  string     `json:"name,omitempty"`
	Email string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Role  types.Role `gorm:"default:'attendee'" json:"role,omitempty"`

	Orders  []Order  `gorm:"foreignKey:user_id" json:"orders,omitempty"`
	Tickets []Ticket `gorm:"foreignKey:user_id" json:"tickets,omitempty"`

	types.Timestamps
}

func (u User) Principal() types.Principal {
	return types.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}
