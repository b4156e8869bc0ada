//go:build integration || !unit

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"drivent/internal/adapters/auth"
	server "drivent/internal/adapters/http_server"
	redisad "drivent/internal/adapters/redis"
	"drivent/internal/app"
	"drivent/internal/domain"
	mysqlrepo "drivent/internal/storage/mysql"
	"drivent/internal/testutil"
)

var secret = []byte("e2e-secret")

// ---------- the test ----------
func TestHTTP_EndToEnd_Hotels(t *testing.T) {
	db := testutil.StartMySQL(t)
	mr := miniredis.RunT(t)
	sessions := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = sessions.Close() })

	authn, err := auth.New(secret, sessions)
	require.NoError(t, err)

	repo := mysqlrepo.New(db)
	srv := server.New(server.Options{})
	srv.MountHandlers(&server.Handlers{
		Hotels: app.NewHotelService(repo, repo, repo),
		Auth:   authn,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// login mimics the sign-in service: sign a token and store its session.
	login := func(userID int64) string {
		tok, err := auth.Sign(secret, userID)
		require.NoError(t, err)
		require.NoError(t, mr.Set(redisad.SessionKey(tok), strconv.FormatInt(userID, 10)))
		return tok
	}
	get := func(path, tok string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = res.Body.Close() })
		return res
	}
	withTicket := func(userID int64, status domain.TicketStatus, remote, hotel bool) string {
		enrollmentID := testutil.InsertEnrollment(t, db, userID)
		typeID := testutil.InsertTicketType(t, db, remote, hotel)
		testutil.InsertTicket(t, db, enrollmentID, typeID, status)
		return login(userID)
	}

	// 401 without a token
	require.Equal(t, http.StatusUnauthorized, get("/hotels", "").StatusCode)
	require.Equal(t, http.StatusUnauthorized, get("/hotels/1", "").StatusCode)

	// 404 without enrollment
	noEnrollment := login(100)
	require.Equal(t, http.StatusNotFound, get("/hotels", noEnrollment).StatusCode)

	// 404 without ticket
	testutil.InsertEnrollment(t, db, 101)
	noTicket := login(101)
	require.Equal(t, http.StatusNotFound, get("/hotels", noTicket).StatusCode)

	// entitled, but the hotel table is still empty
	entitled := withTicket(102, domain.TicketPaid, false, true)
	require.Equal(t, http.StatusNotFound, get("/hotels", entitled).StatusCode)
	require.Equal(t, http.StatusNotFound, get("/hotels/1", entitled).StatusCode)

	// ineligible users see 402 even before any hotel exists
	reserved := withTicket(103, domain.TicketReserved, false, true)
	require.Equal(t, http.StatusPaymentRequired, get("/hotels", reserved).StatusCode)

	hotelID := testutil.InsertHotel(t, db, "Driven Resort")
	testutil.InsertRoom(t, db, hotelID, "101", 3)
	testutil.InsertRoom(t, db, hotelID, "102", 2)

	remote := withTicket(104, domain.TicketPaid, true, true)
	noHotel := withTicket(105, domain.TicketPaid, false, false)
	for _, tok := range []string{reserved, remote, noHotel} {
		require.Equal(t, http.StatusPaymentRequired, get("/hotels", tok).StatusCode)
		require.Equal(t, http.StatusPaymentRequired, get(fmt.Sprintf("/hotels/%d", hotelID), tok).StatusCode)
	}

	// 200 list
	res := get("/hotels", entitled)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	require.Len(t, list, 1)
	require.Equal(t, hotelID, list[0].ID)
	require.Equal(t, "Driven Resort", list[0].Name)

	// 200 detail with rooms
	res = get(fmt.Sprintf("/hotels/%d", hotelID), entitled)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var detail struct {
		ID    int64 `json:"id"`
		Rooms []struct {
			Name     string `json:"name"`
			Capacity int    `json:"capacity"`
		} `json:"Rooms"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&detail))
	require.Equal(t, hotelID, detail.ID)
	require.Len(t, detail.Rooms, 2)
	require.Equal(t, "101", detail.Rooms[0].Name)

	// 404 for an id that does not exist
	require.Equal(t, http.StatusNotFound, get(fmt.Sprintf("/hotels/%d", hotelID+1000), entitled).StatusCode)

	// revoked session
	mr.Del(redisad.SessionKey(entitled))
	require.Equal(t, http.StatusUnauthorized, get("/hotels", entitled).StatusCode)
}
