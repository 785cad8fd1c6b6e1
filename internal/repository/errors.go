// Package repository implements data access against MySQL. Sentinel errors
// defined here let handlers distinguish failure classes (duplicate email,
// missing row) from generic persistence errors without parsing driver
// messages at the call site.
package repository

import "errors"

// ErrEmailExists is returned when an insert hits the unique constraint on
// users.email. Detecting the constraint violation at insert time is the
// only race-safe way to spot a duplicate registration.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when an operation targets a row that does not
// exist, e.g. deleting an appointment that was already removed.
var ErrNotFound = errors.New("not found")
