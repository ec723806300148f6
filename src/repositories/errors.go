package repositories

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSnapshot = errors.New("snapshot already exists for this date")
)
