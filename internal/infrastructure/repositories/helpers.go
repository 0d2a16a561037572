package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKeyError detects unique-constraint violations across the
// postgres production driver and the sqlite test driver.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
