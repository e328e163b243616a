package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

// Principal is the already-authenticated caller. Handlers resolve it from the
// auth middleware and pass it down explicitly; the core never reads session
// state on its own.
type Principal struct {
	ID    uint   `json:"id"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

func (p Principal) IsOrganizer() bool {
	return p.Role == ROLE_ORGANIZER || p.Role == ROLE_ADMIN
}

type Role string

const (
	ROLE_ATTENDEE  Role = "attendee"
	ROLE_ORGANIZER Role = "organizer"
	ROLE_ADMIN     Role = "admin"
)

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_COMPLETED EventStatus = "completed"
)

type TicketStatus string

const (
	TICKET_ISSUED   TicketStatus = "issued"
	TICKET_REDEEMED TicketStatus = "redeemed"
)

type EventTicketTypeBody struct {
	ID    uint    `json:"id,omitempty"`
	Name  string  `json:"name" binding:"required"`
	Price float32 `json:"price" binding:"gte=0"`
	Total uint    `json:"total" binding:"required,min=1"`
}

type CreateEventRequestBody struct {
	Name         string                `json:"name" binding:"required,min=3"`
	Description  string                `json:"description" binding:"required,min=10"`
	DateTime     string                `json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	LocationName string                `json:"location_name" binding:"required,min=3"`
	Latitude     *float64              `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    *float64              `json:"longitude" binding:"required,gte=-180,lte=180"`
	Image        string                `json:"image,omitempty"`
	TicketTypes  []EventTicketTypeBody `json:"ticket_types" binding:"required,min=1,dive"`
}

type OrderLineItem struct {
	TicketTypeID uint `json:"ticket_type" binding:"required"`
	Qty          uint `json:"qty" binding:"required,min=1"`
}

type CreateOrderRequestBody struct {
	EventID uint            `json:"event" binding:"required"`
	Items   []OrderLineItem `json:"items" binding:"required,min=1,dive"`
}

type CreateAdmissionRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type EventsQueryFilters struct {
	IncludePast bool `form:"include_past,omitempty" binding:"omitempty"`
}

type RedemptionOutcome string

const (
	REDEMPTION_ACCEPTED RedemptionOutcome = "accepted"
	REDEMPTION_REJECTED RedemptionOutcome = "rejected"
)

type RedemptionReason string

const (
	REASON_MALFORMED_CODE   RedemptionReason = "malformed_code"
	REASON_UNKNOWN_TICKET   RedemptionReason = "unknown_ticket"
	REASON_ALREADY_REDEEMED RedemptionReason = "already_redeemed"
)

// RedemptionResult carries what a gate operator needs to act on a scan:
// names rather than internal ids, plus the original redemption time on
// duplicate scans.
type RedemptionResult struct {
	Outcome    RedemptionOutcome `json:"outcome"`
	Reason     RedemptionReason  `json:"reason,omitempty"`
	TicketID   *string           `json:"ticket_id,omitempty"`
	EventName  string            `json:"event_name,omitempty"`
	TicketType string            `json:"ticket_type,omitempty"`
	RedeemedAt *time.Time        `json:"redeemed_at,omitempty"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
