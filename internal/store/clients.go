package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/karvembu/tellerops/internal/domain"
)

// ClientStore inserts rows into the externally owned clients table. The
// table predates this service, so the store only writes the agreed column
// list and leaves every other constraint to the database.
type ClientStore struct {
	db DB
}

func NewClientStore(db DB) *ClientStore {
	return &ClientStore{db: db}
}

// Create persists a validated client record. Duplicate SSNs surface as
// ErrDuplicateClient when the underlying table enforces uniqueness; any
// other rejection propagates as a wrapped persistence error.
func (s *ClientStore) Create(ctx context.Context, c *domain.Client) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO clients (ssn, first_name, last_name, date_of_birth, email, phone, street, city, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.SSN, c.FirstName, c.LastName, c.DateOfBirth, c.Email, c.Phone, c.Street, c.City, c.State,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateClient
		}
		return fmt.Errorf("client insert failed: %w", err)
	}
	return nil
}
