package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type listingRepository struct {
	db *sql.DB
}

// NewListingRepository создаёт PostgreSQL-реализацию ListingRepository.
func NewListingRepository(store *Store) domain.ListingRepository {
	return &listingRepository{db: store.DB()}
}

func (r *listingRepository) Create(publisherID string, gameID domain.GameID, details domain.GameDetails) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO listings (publisher_id, game_id, name, price_minor, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		publisherID, int32(gameID), details.Name, details.PriceMinor, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrGameAlreadyExists
		}
		return fmt.Errorf("insert listing: %w", err)
	}

	for position, tag := range details.Tags {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO listing_tags (publisher_id, game_id, position, tag_id)
			VALUES ($1,$2,$3,$4)
		`,
			publisherID, int32(gameID), position, int32(tag),
		); err != nil {
			return fmt.Errorf("insert listing tag: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create listing: %w", err)
	}

	return nil
}

func (r *listingRepository) Get(publisherID string, gameID domain.GameID) (domain.GameDetails, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var details domain.GameDetails
	err := r.db.QueryRowContext(ctx, `
		SELECT name, price_minor
		FROM listings
		WHERE publisher_id = $1 AND game_id = $2
	`, publisherID, int32(gameID)).Scan(&details.Name, &details.PriceMinor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GameDetails{}, domain.ErrGameNotFound
		}
		return domain.GameDetails{}, fmt.Errorf("select listing: %w", err)
	}

	tags, err := r.loadTags(ctx, publisherID, gameID)
	if err != nil {
		return domain.GameDetails{}, err
	}
	details.Tags = tags

	return details, nil
}

func (r *listingRepository) loadTags(ctx context.Context, publisherID string, gameID domain.GameID) ([]domain.TagID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tag_id
		FROM listing_tags
		WHERE publisher_id = $1 AND game_id = $2
		ORDER BY position ASC
	`, publisherID, int32(gameID))
	if err != nil {
		return nil, fmt.Errorf("load listing tags: %w", err)
	}
	defer rows.Close()

	tags := make([]domain.TagID, 0)
	for rows.Next() {
		var tag int32
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan listing tag: %w", err)
		}
		tags = append(tags, domain.TagID(tag))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing tags: %w", err)
	}

	return tags, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.ListingRepository = (*listingRepository)(nil)
