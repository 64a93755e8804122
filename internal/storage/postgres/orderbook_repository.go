package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

type orderBookRepository struct {
	db *sql.DB
}

// NewOrderBookRepository создаёт PostgreSQL-реализацию OrderBookRepository.
// Оба зеркальных индекса обслуживаются одной таблицей orders, поэтому
// «запись есть только в одном индексе» невозможна по построению.
func NewOrderBookRepository(store *Store) domain.OrderBookRepository {
	return &orderBookRepository{db: store.DB()}
}

func (r *orderBookRepository) Place(order domain.PendingOrder) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (publisher_id, game_id, buyer_id, deposit_minor, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		order.PublisherID, int32(order.GameID), order.BuyerID, order.DepositMinor, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyPlaced
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *orderBookRepository) Get(buyerID, publisherID string, gameID domain.GameID) (domain.PendingOrder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order := domain.PendingOrder{
		BuyerID:     buyerID,
		PublisherID: publisherID,
		GameID:      gameID,
	}
	err := r.db.QueryRowContext(ctx, `
		SELECT deposit_minor
		FROM orders
		WHERE buyer_id = $1 AND publisher_id = $2 AND game_id = $3
	`, buyerID, publisherID, int32(gameID)).Scan(&order.DepositMinor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PendingOrder{}, domain.ErrOrderNotFound
		}
		return domain.PendingOrder{}, fmt.Errorf("select order by buyer: %w", err)
	}

	return order, nil
}

func (r *orderBookRepository) PendingBuyer(publisherID string, gameID domain.GameID) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var buyer string
	err := r.db.QueryRowContext(ctx, `
		SELECT buyer_id
		FROM orders
		WHERE publisher_id = $1 AND game_id = $2
	`, publisherID, int32(gameID)).Scan(&buyer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("select order by publisher: %w", err)
	}

	return buyer, nil
}

func (r *orderBookRepository) Resolve(buyerID, publisherID string, gameID domain.GameID) error {
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

	res, err := tx.ExecContext(ctx, `
		DELETE FROM orders
		WHERE buyer_id = $1 AND publisher_id = $2 AND game_id = $3
	`, buyerID, publisherID, int32(gameID))
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrOrderNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO owned_games (buyer_id, publisher_id, game_id, granted_at)
		VALUES ($1,$2,$3,$4)
	`, buyerID, publisherID, int32(gameID), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert ownership grant: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit resolve order: %w", err)
	}

	return nil
}

func (r *orderBookRepository) Owned(buyerID, publisherID string, gameID domain.GameID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM owned_games
		WHERE buyer_id = $1 AND publisher_id = $2 AND game_id = $3
	`, buyerID, publisherID, int32(gameID)).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check ownership: %w", err)
}

var _ domain.OrderBookRepository = (*orderBookRepository)(nil)
