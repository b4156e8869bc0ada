package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"drivent/internal/adapters/observability"
	"drivent/internal/domain"
)

type enrollmentRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	CPF       string    `db:"cpf"`
	Birthday  time.Time `db:"birthday"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	AddressID     sql.NullInt64  `db:"address_id"`
	CEP           sql.NullString `db:"cep"`
	Street        sql.NullString `db:"street"`
	City          sql.NullString `db:"city"`
	State         sql.NullString `db:"state"`
	Number        sql.NullString `db:"number"`
	Neighborhood  sql.NullString `db:"neighborhood"`
	AddressDetail sql.NullString `db:"address_detail"`
}

type ticketRow struct {
	ID           int64     `db:"id"`
	TicketTypeID int64     `db:"ticket_type_id"`
	EnrollmentID int64     `db:"enrollment_id"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	TypeID            int64     `db:"tt_id"`
	TypeName          string    `db:"tt_name"`
	TypePrice         int       `db:"tt_price"`
	TypeIsRemote      bool      `db:"tt_is_remote"`
	TypeIncludesHotel bool      `db:"tt_includes_hotel"`
	TypeCreatedAt     time.Time `db:"tt_created_at"`
	TypeUpdatedAt     time.Time `db:"tt_updated_at"`
}

type hotelRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Image     string    `db:"image"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type roomRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Capacity  int       `db:"capacity"`
	HotelID   int64     `db:"hotel_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Repo serves enrollment, ticket and hotel lookups from one MySQL schema.
type Repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) *Repo { return &Repo{db: db} }

func observe(query string, start time.Time, err error) {
	observability.ObserveDB(query, err, time.Since(start))
}

func (r *Repo) FindWithAddressByUserID(ctx context.Context, userID int64) (_ *domain.Enrollment, err error) {
	defer func(start time.Time) { observe("find_enrollment", start, err) }(time.Now())

	var row enrollmentRow
	if err := r.db.GetContext(ctx, &row, findEnrollmentByUserSQL, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	e := &domain.Enrollment{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		CPF:       row.CPF,
		Birthday:  row.Birthday,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.AddressID.Valid {
		e.Address = &domain.Address{
			ID:           row.AddressID.Int64,
			CEP:          row.CEP.String,
			Street:       row.Street.String,
			City:         row.City.String,
			State:        row.State.String,
			Number:       row.Number.String,
			Neighborhood: row.Neighborhood.String,
		}
		if row.AddressDetail.Valid {
			d := row.AddressDetail.String
			e.Address.AddressDetail = &d
		}
	}
	return e, nil
}

func (r *Repo) FindTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (_ *domain.Ticket, err error) {
	defer func(start time.Time) { observe("find_ticket", start, err) }(time.Now())

	var row ticketRow
	if err := r.db.GetContext(ctx, &row, findTicketByEnrollmentSQL, enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Ticket{
		ID:           row.ID,
		EnrollmentID: row.EnrollmentID,
		TicketTypeID: row.TicketTypeID,
		Status:       domain.TicketStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		TicketType: domain.TicketType{
			ID:            row.TypeID,
			Name:          row.TypeName,
			Price:         row.TypePrice,
			IsRemote:      row.TypeIsRemote,
			IncludesHotel: row.TypeIncludesHotel,
			CreatedAt:     row.TypeCreatedAt,
			UpdatedAt:     row.TypeUpdatedAt,
		},
	}, nil
}

func (r *Repo) FindHotels(ctx context.Context) (_ []domain.Hotel, err error) {
	defer func(start time.Time) { observe("find_hotels", start, err) }(time.Now())

	var rows []hotelRow
	if err := r.db.SelectContext(ctx, &rows, findHotelsSQL); err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0, len(rows))
	for _, h := range rows {
		out = append(out, h.toDomain())
	}
	return out, nil
}

// FindHotelWithRooms loads the hotel and then its rooms ordered by id.
func (r *Repo) FindHotelWithRooms(ctx context.Context, id int64) (_ *domain.Hotel, err error) {
	defer func(start time.Time) { observe("find_hotel", start, err) }(time.Now())

	var row hotelRow
	if err := r.db.GetContext(ctx, &row, findHotelSQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var rooms []roomRow
	if err := r.db.SelectContext(ctx, &rooms, findRoomsByHotelSQL, id); err != nil {
		return nil, err
	}

	h := row.toDomain()
	h.Rooms = make([]domain.Room, 0, len(rooms))
	for _, rm := range rooms {
		h.Rooms = append(h.Rooms, domain.Room{
			ID:        rm.ID,
			Name:      rm.Name,
			Capacity:  rm.Capacity,
			HotelID:   rm.HotelID,
			CreatedAt: rm.CreatedAt,
			UpdatedAt: rm.UpdatedAt,
		})
	}
	return &h, nil
}

func (h hotelRow) toDomain() domain.Hotel {
	return domain.Hotel{ID: h.ID, Name: h.Name, Image: h.Image, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt}
}
