package utils

import (
	"context"
)

// check if an active row with this id exists, return IntegrityError if not
func ValidateActiveResourceId[T any](ctx context.Context, reference string, id int) error {

	count, err := ResourceCountWhere[T](ctx, "id = ? AND is_active = ?", id, true)
	if err != nil {
		return err
	}
	if count <= 0 {
		return NewIntegrityError(reference, id)
	}

	return nil
}

// check column uniqueness for create (exceptId = 0) and update
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId int) error {

	var count int64
	var err error
	if exceptId == 0 {
		count, err = ResourceCountWhere[T](ctx, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, column+" = ? AND id != ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError(column, "must be unique")
	}
	return nil
}
