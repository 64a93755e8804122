package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

type publisherRepository struct {
	db *sql.DB
}

// NewPublisherRepository создаёт PostgreSQL-реализацию PublisherRepository.
func NewPublisherRepository(store *Store) domain.PublisherRepository {
	return &publisherRepository{db: store.DB()}
}

func (r *publisherRepository) Create(publisherID string, details domain.PublisherDetails) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO publishers (id, name, url, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		publisherID, details.Name, details.URL, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPublisherAlreadyExists
		}
		return fmt.Errorf("insert publisher: %w", err)
	}

	return nil
}

func (r *publisherRepository) Get(publisherID string) (domain.PublisherDetails, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var details domain.PublisherDetails
	err := r.db.QueryRowContext(ctx, `
		SELECT name, url
		FROM publishers
		WHERE id = $1
	`, publisherID).Scan(&details.Name, &details.URL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PublisherDetails{}, domain.ErrInvalidPublisher
		}
		return domain.PublisherDetails{}, fmt.Errorf("select publisher: %w", err)
	}

	return details, nil
}

func (r *publisherRepository) Exists(publisherID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM publishers WHERE id = $1`, publisherID).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check publisher exists: %w", err)
}

var _ domain.PublisherRepository = (*publisherRepository)(nil)
