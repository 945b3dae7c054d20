package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

type ContactRepo struct {
	db db.DB
}

func NewContactRepo(db db.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*repository.Contact, error) {
	var contact repository.Contact
	err := r.db.Get(ctx, &contact, "SELECT * FROM contacts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// GetByRole returns the dispatch-desk contact for a role. Admin notifications
// go to a single desk, not to every admin account.
func (r *ContactRepo) GetByRole(ctx context.Context, role string) (*repository.Contact, error) {
	var contact repository.Contact
	err := r.db.Get(ctx, &contact, `
        SELECT * FROM contacts
        WHERE role = $1
        ORDER BY id ASC
        LIMIT 1
    `, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &contact, nil
}
