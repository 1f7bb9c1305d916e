package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/domain"
)

// psql builds dollar-placeholder queries for dynamic filters. Fixed CRUD
// statements stay as plain SQL constants.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// moneyFromNullable composes an optional Money from nullable columns.
func moneyFromNullable(amount *int64, currency *string) *domain.Money {
	if amount == nil || currency == nil {
		return nil
	}
	return &domain.Money{Amount: *amount, Currency: *currency}
}

// moneyToNullable splits an optional Money into nullable columns.
func moneyToNullable(m *domain.Money) (*int64, *string) {
	if m == nil {
		return nil, nil
	}
	amount := m.Amount
	currency := m.Currency
	return &amount, &currency
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx, so repository
// statements can run inside or outside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
