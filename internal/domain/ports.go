package domain

import "context"

// Lookups return a nil entity and a nil error when the record does not exist.

type EnrollmentRepository interface {
	FindWithAddressByUserID(ctx context.Context, userID int64) (*Enrollment, error)
}

type TicketRepository interface {
	// FindTicketByEnrollmentID returns the ticket with its TicketType populated.
	FindTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (*Ticket, error)
}

type HotelRepository interface {
	FindHotels(ctx context.Context) ([]Hotel, error)
	FindHotelWithRooms(ctx context.Context, id int64) (*Hotel, error)
}

// SessionStore resolves bearer tokens issued at sign-in to the owning user.
type SessionStore interface {
	UserIDForToken(ctx context.Context, token string) (int64, bool, error)
}
