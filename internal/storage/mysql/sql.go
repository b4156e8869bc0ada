package mysql

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Enrollment joined with its (optional) address.
const findEnrollmentByUserSQL = `
SELECT
  e.id,
  e.user_id,
  e.name,
  e.cpf,
  e.birthday,
  e.phone,
  e.created_at,
  e.updated_at,
  a.id             AS address_id,
  a.cep,
  a.street,
  a.city,
  a.state,
  a.number,
  a.neighborhood,
  a.address_detail
FROM enrollments e
LEFT JOIN addresses a ON a.enrollment_id = e.id
WHERE e.user_id = ?
LIMIT 1
`

// Ticket joined with its ticket type; tt_* aliases keep the column names unique for sqlx.
const findTicketByEnrollmentSQL = `
SELECT
  t.id,
  t.ticket_type_id,
  t.enrollment_id,
  t.status,
  t.created_at,
  t.updated_at,
  tt.id             AS tt_id,
  tt.name           AS tt_name,
  tt.price          AS tt_price,
  tt.is_remote      AS tt_is_remote,
  tt.includes_hotel AS tt_includes_hotel,
  tt.created_at     AS tt_created_at,
  tt.updated_at     AS tt_updated_at
FROM tickets t
JOIN ticket_types tt ON tt.id = t.ticket_type_id
WHERE t.enrollment_id = ?
ORDER BY t.id
LIMIT 1
`

const findHotelsSQL = `
SELECT id, name, image, created_at, updated_at
FROM hotels
ORDER BY id
`

const findHotelSQL = `
SELECT id, name, image, created_at, updated_at
FROM hotels
WHERE id = ?
`

const findRoomsByHotelSQL = `
SELECT id, name, capacity, hotel_id, created_at, updated_at
FROM rooms
WHERE hotel_id = ?
ORDER BY id
`

// -----------------------------------------------------------------------------
// MIGRATIONS
// -----------------------------------------------------------------------------

const createSchemaMigrationsSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name       VARCHAR(255) NOT NULL,
  applied_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (name)
)
`

const migrationAppliedSQL = `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = ?)`

const recordMigrationSQL = `INSERT INTO schema_migrations (name) VALUES (?)`
