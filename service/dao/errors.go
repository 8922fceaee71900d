package dao

import "errors"

// Sentinel errors shared by report stores; match them with errors.Is.
var (
	// ErrNotFound means no report is stored under the key
	ErrNotFound = errors.New("dao: not found")
	// ErrInvalidID means the report carries no id
	ErrInvalidID = errors.New("dao: invalid id")
	ErrNilEntity = errors.New("dao: nil entity")
)
