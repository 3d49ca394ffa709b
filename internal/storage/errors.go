package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/estoquehub/internal/model"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
	pqOutOfRange      = "22003"
)

// translate maps driver errors onto the model taxonomy. op names the
// failed operation for the wrapped message.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", model.ErrConflict, conflictDetail(pqErr.Constraint))
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", model.ErrValidation, checkDetail(pqErr.Constraint))
		case pqOutOfRange:
			return fmt.Errorf("%w: value out of range", model.ErrValidation)
		}
	}

	return fmt.Errorf("failed to %s: %w: %v", op, model.ErrStore, err)
}

func conflictDetail(constraint string) string {
	switch constraint {
	case "users_email_key":
		return "email already registered"
	case "products_sku_key":
		return "sku already exists"
	default:
		return "duplicate value"
	}
}

func checkDetail(constraint string) string {
	switch constraint {
	case "products_quantity_check":
		return "quantity must not be negative"
	case "products_min_quantity_check":
		return "minQuantity must not be negative"
	default:
		return "value out of range"
	}
}
