package app

import (
	"context"
	"fmt"

	"drivent/internal/domain"
)

type HotelService struct {
	enrollments domain.EnrollmentRepository
	tickets     domain.TicketRepository
	hotels      domain.HotelRepository
}

func NewHotelService(e domain.EnrollmentRepository, t domain.TicketRepository, h domain.HotelRepository) *HotelService {
	return &HotelService{enrollments: e, tickets: t, hotels: h}
}

// ListHotels returns every hotel in storage order once the user's ticket is
// confirmed to include lodging. Entitlement is resolved before the hotel
// table is read, so an ineligible user sees ErrPaymentRequired even when no
// hotels exist.
func (s *HotelService) ListHotels(ctx context.Context, userID int64) ([]domain.Hotel, error) {
	if err := s.authorize(ctx, userID); err != nil {
		return nil, err
	}
	hs, err := s.hotels.FindHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("find hotels: %w", err)
	}
	if len(hs) == 0 {
		return nil, fmt.Errorf("hotels: %w", domain.ErrNotFound)
	}
	return hs, nil
}

// GetHotel returns one hotel with its rooms, behind the same entitlement gate as ListHotels.
func (s *HotelService) GetHotel(ctx context.Context, userID, hotelID int64) (domain.Hotel, error) {
	if err := s.authorize(ctx, userID); err != nil {
		return domain.Hotel{}, err
	}
	if hotelID <= 0 {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	h, err := s.hotels.FindHotelWithRooms(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("find hotel %d: %w", hotelID, err)
	}
	if h == nil {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	return *h, nil
}

func (s *HotelService) authorize(ctx context.Context, userID int64) error {
	t, err := s.resolveTicket(ctx, userID)
	if err != nil {
		return err
	}
	if !t.EntitledToHotel() {
		return fmt.Errorf("ticket %d (%s, remote=%t, hotel=%t): %w",
			t.ID, t.Status, t.TicketType.IsRemote, t.TicketType.IncludesHotel, domain.ErrPaymentRequired)
	}
	return nil
}

// resolveTicket walks enrollment -> ticket. Each absent link is ErrNotFound.
func (s *HotelService) resolveTicket(ctx context.Context, userID int64) (domain.Ticket, error) {
	e, err := s.enrollments.FindWithAddressByUserID(ctx, userID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("find enrollment for user %d: %w", userID, err)
	}
	if e == nil {
		return domain.Ticket{}, fmt.Errorf("enrollment for user %d: %w", userID, domain.ErrNotFound)
	}

	t, err := s.tickets.FindTicketByEnrollmentID(ctx, e.ID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("find ticket for enrollment %d: %w", e.ID, err)
	}
	if t == nil {
		return domain.Ticket{}, fmt.Errorf("ticket for enrollment %d: %w", e.ID, domain.ErrNotFound)
	}
	return *t, nil
}
