// Package id is the canonical source for identifier generation across
// the appsim codebase.
package id

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// UUID returns a random UUID v4 string. Used for request ids and other
// internal identifiers where no ordering is needed.
func UUID() string {
	return uuid.NewString()
}

// Timestamp returns the current Unix time in milliseconds as a decimal
// string. Account ids are assigned this way at signup; collisions within
// the same millisecond are not defended against.
func Timestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
