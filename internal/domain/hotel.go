package domain

import "time"

type Hotel struct {
	ID        int64
	Name      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Rooms     []Room // populated only by single-hotel lookups
}

type Room struct {
	ID        int64
	Name      string
	Capacity  int
	HotelID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
