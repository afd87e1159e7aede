package ident

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewProductID returns a new lexicographically sortable product id.
// The leading bits carry the creation time in milliseconds, which the
// catalog "newest" sort uses when a row has no creation timestamp.
func NewProductID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// CreatedAt recovers the approximate creation time embedded in a
// product id. Returns the zero time for malformed ids.
func CreatedAt(id string) time.Time {
	parsed, err := ulid.Parse(strings.ToUpper(id))
	if err != nil {
		return time.Time{}
	}

	return ulid.Time(parsed.Time())
}

// Valid reports whether id parses as a catalog identifier. Used to
// skip malformed ids handed back by the external recommendation
// service before they reach a shard query.
func Valid(id string) bool {
	_, err := ulid.Parse(strings.ToUpper(id))
	return err == nil
}
