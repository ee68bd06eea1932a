package repository

import "errors"

// ErrNotFound is returned when a row is absent from the table(s) a query
// targets. For moderation decisions this is also how the loser of two racing
// decisions surfaces: the second tx finds no pending row.
var ErrNotFound = errors.New("not found")
