package domain

import "time"

type TicketStatus string

const (
	TicketReserved TicketStatus = "RESERVED"
	TicketPaid     TicketStatus = "PAID"
)

type Ticket struct {
	ID           int64
	EnrollmentID int64
	TicketTypeID int64
	Status       TicketStatus
	TicketType   TicketType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TicketType struct {
	ID            int64
	Name          string
	Price         int
	IsRemote      bool
	IncludesHotel bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EntitledToHotel reports whether the ticket grants access to hotel listings:
// it must be past reservation, for in-person attendance, and include lodging.
func (t Ticket) EntitledToHotel() bool {
	return t.Status != TicketReserved && !t.TicketType.IsRemote && t.TicketType.IncludesHotel
}
