package domain

import "time"

type Enrollment struct {
	ID        int64
	UserID    int64
	Name      string
	CPF       string
	Birthday  time.Time
	Phone     string
	Address   *Address // nil when the enrollment was saved without one
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	ID            int64
	CEP           string
	Street        string
	City          string
	State         string
	Number        string
	Neighborhood  string
	AddressDetail *string
}
