// Package testutil starts disposable MySQL instances and seeds fixtures for
// storage and end-to-end tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"drivent/internal/domain"
	mysqlrepo "drivent/internal/storage/mysql"
)

// StartMySQL runs an isolated MySQL container, applies the embedded
// migrations and returns a connected handle. Docker picks the host port.
// The test is skipped when no Docker daemon is reachable.
func StartMySQL(t *testing.T) *sqlx.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=drivent",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/drivent?parseTime=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sqlx.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sqlx.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func exec(t *testing.T, db *sqlx.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

// InsertEnrollment creates an enrollment with an address for userID.
func InsertEnrollment(t *testing.T, db *sqlx.DB, userID int64) int64 {
	t.Helper()
	id := exec(t, db,
		`INSERT INTO enrollments (name, cpf, birthday, phone, user_id) VALUES (?, ?, ?, ?, ?)`,
		fmt.Sprintf("user %d", userID), "12345678909", time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), "(21) 98999-9999", userID)
	exec(t, db,
		`INSERT INTO addresses (cep, street, city, state, number, neighborhood, enrollment_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"22041-001", "Av. Atlântica", "Rio de Janeiro", "RJ", "1702", "Copacabana", id)
	return id
}

func InsertTicketType(t *testing.T, db *sqlx.DB, isRemote, includesHotel bool) int64 {
	t.Helper()
	return exec(t, db,
		`INSERT INTO ticket_types (name, price, is_remote, includes_hotel) VALUES (?, ?, ?, ?)`,
		fmt.Sprintf("type remote=%t hotel=%t", isRemote, includesHotel), 60000, isRemote, includesHotel)
}

func InsertTicket(t *testing.T, db *sqlx.DB, enrollmentID, ticketTypeID int64, status domain.TicketStatus) int64 {
	t.Helper()
	return exec(t, db,
		`INSERT INTO tickets (ticket_type_id, enrollment_id, status) VALUES (?, ?, ?)`,
		ticketTypeID, enrollmentID, string(status))
}

func InsertHotel(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	return exec(t, db, `INSERT INTO hotels (name, image) VALUES (?, ?)`, name, "https://img.example/"+name+".png")
}

func InsertRoom(t *testing.T, db *sqlx.DB, hotelID int64, name string, capacity int) int64 {
	t.Helper()
	return exec(t, db, `INSERT INTO rooms (name, capacity, hotel_id) VALUES (?, ?, ?)`, name, capacity, hotelID)
}
