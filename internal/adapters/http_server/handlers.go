// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"drivent/internal/adapters/auth"
	"drivent/internal/adapters/observability"
	"drivent/internal/app"
	"drivent/internal/domain"
)

type Handlers struct {
	Hotels *app.HotelService
	Auth   *auth.Authenticator
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type hotelView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type hotelWithRoomsView struct {
	hotelView
	Rooms []roomView `json:"Rooms"`
}

type roomView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	HotelID   int64     `json:"hotelId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toHotelView(h domain.Hotel, _ int) hotelView {
	return hotelView{ID: h.ID, Name: h.Name, Image: h.Image, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt}
}

func toRoomView(r domain.Room, _ int) roomView {
	return roomView{ID: r.ID, Name: r.Name, Capacity: r.Capacity, HotelID: r.HotelID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/hotels", func(r chi.Router) {
		r.Use(RequireUser(h.Auth))
		r.Get("/", h.listHotels)
		r.Get("/{hotelId}", h.getHotel)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeServiceError maps domain failures to status codes. Anything
// uncategorized is logged and answered with 500.
func writeServiceError(w http.ResponseWriter, op string, userID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		observability.ObserveAccess(op, "not_found")
		writeProblem(w, http.StatusNotFound, "Not Found", "no hotel available for this user")
	case errors.Is(err, domain.ErrPaymentRequired):
		observability.ObserveAccess(op, "payment_required")
		writeProblem(w, http.StatusPaymentRequired, "Payment Required", "ticket is unpaid, remote or does not include hotel")
	default:
		observability.ObserveAccess(op, "error")
		log.Error().Err(err).Str("op", op).Int64("user_id", userID).Msg("hotel lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// etagMatches applies the weak comparison If-None-Match uses: any listed
// tag, or "*", matches regardless of W/ prefixes.
func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(ifNoneMatch, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	// If client already has this version, short-circuit.
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	hs, err := h.Hotels.ListHotels(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "list_hotels", userID, err)
		return
	}
	observability.ObserveAccess("list_hotels", "granted")
	writeJSON(w, r, lo.Map(hs, toHotelView))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	// A non-numeric id cannot match any hotel; the service reports it as
	// not found once entitlement has been checked.
	hotelID, _ := strconv.ParseInt(chi.URLParam(r, "hotelId"), 10, 64)

	hotel, err := h.Hotels.GetHotel(r.Context(), userID, hotelID)
	if err != nil {
		writeServiceError(w, "get_hotel", userID, err)
		return
	}
	observability.ObserveAccess("get_hotel", "granted")
	writeJSON(w, r, hotelWithRoomsView{
		hotelView: toHotelView(hotel, 0),
		Rooms:     lo.Map(hotel.Rooms, toRoomView),
	})
}
