package showcase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/go-click/click/pkg/logging"
)

// MemoryDSN is a shared in-memory SQLite database.
const MemoryDSN = "file:showcase?mode=memory&cache=shared"

const dateLayout = time.DateOnly

// Customer is a row of the customers table.
type Customer struct {
	ID       int64
	Name     string
	Email    string
	Age      int64
	City     string
	Category string
	Joined   time.Time
	Active   bool
	Notes    string
}

// Categories are the customer categories offered by the customer form.
var Categories = []string{"Retail", "Wholesale", "Government", "Education"}

const schema = `CREATE TABLE IF NOT EXISTS customers (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	email    TEXT NOT NULL,
	age      INTEGER,
	city     TEXT,
	category TEXT,
	joined   TEXT,
	active   INTEGER NOT NULL DEFAULT 0,
	notes    TEXT
)`

// Store reads and writes customers.
type Store struct {
	db *sql.DB
}

// OpenDB opens the SQLite database at dsn, creating and seeding the
// customers table when it is empty.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	if strings.Contains(dsn, "mode=memory") || dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&n); err != nil {
		db.Close()
		return nil, err
	}
	if n == 0 {
		s := &Store{db: db}
		for _, c := range seedCustomers() {
			if err := s.Save(ctx, &c); err != nil {
				db.Close()
				return nil, fmt.Errorf("seed customers: %w", err)
			}
		}
		logging.Logger().Debug("customers seeded", "dsn", dsn)
	}
	return db, nil
}

// NewStore returns a store over db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB returns the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

// Customer loads the customer with id.
func (s *Store) Customer(ctx context.Context, id int64) (*Customer, error) {
	var (
		c            Customer
		age          sql.NullInt64
		city, cat    sql.NullString
		joined, note sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, age, city, category, joined, active, notes FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &age, &city, &cat, &joined, &c.Active, &note)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", id, err)
	}
	c.Age = age.Int64
	c.City = city.String
	c.Category = cat.String
	c.Notes = note.String
	if joined.Valid && joined.String != "" {
		if t, err := time.Parse(dateLayout, joined.String); err == nil {
			c.Joined = t
		}
	}
	return &c, nil
}

// Save inserts a customer without an id and updates one with an id.
func (s *Store) Save(ctx context.Context, c *Customer) error {
	joined := ""
	if !c.Joined.IsZero() {
		joined = c.Joined.Format(dateLayout)
	}
	if c.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO customers (name, email, age, city, category, joined, active, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.Email, c.Age, c.City, c.Category, joined, c.Active, c.Notes)
		if err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
		c.ID, err = res.LastInsertId()
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, age = ?, city = ?, category = ?, joined = ?, active = ?, notes = ?
		 WHERE id = ?`,
		c.Name, c.Email, c.Age, c.City, c.Category, joined, c.Active, c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes the customer with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

// Cities returns the distinct customer cities in name order.
func (s *Store) Cities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT city FROM customers WHERE city IS NOT NULL AND city <> '' ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		out = append(out, city)
	}
	return out, rows.Err()
}

func seedCustomers() []Customer {
	first := []string{"Ann", "Bruno", "Chloe", "Dmitri", "Elena", "Farid", "Greta", "Hiro", "Ines", "Jonas", "Kemal", "Lena"}
	last := []string{"Berg", "Costa", "Dubois", "Eriksen", "Fischer", "Garcia", "Horvat"}
	cities := []string{"Paris", "Parma", "Porto", "Berlin", "Bergen", "Bern", "Madrid", "Malmo", "Milan"}
	start := time.Date(2019, time.March, 4, 0, 0, 0, 0, time.UTC)

	out := make([]Customer, 0, 36)
	for i := 0; i < 36; i++ {
		f, l := first[i%len(first)], last[(i*5)%len(last)]
		out = append(out, Customer{
			Name:     f + " " + l,
			Email:    strings.ToLower(f+"."+l) + "@example.com",
			Age:      int64(21 + (i*7)%48),
			City:     cities[(i*4)%len(cities)],
			Category: Categories[i%len(Categories)],
			Joined:   start.AddDate(0, i*2, i*3),
			Active:   i%4 != 0,
		})
	}
	return out
}
