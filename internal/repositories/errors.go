package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("repository: record not found")
	ErrDuplicate = errors.New("repository: duplicate record")
)

// IsNotFoundError reports whether err represents a missing record, either
// from this package or straight from gorm.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err represents a unique-constraint
// conflict. Uniqueness (user email, enrollment pair, membership pair) is
// enforced by database indexes; the conflict surfaces here instead of an
// application-level existence probe.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
