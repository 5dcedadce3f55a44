// Package repository contains the data access layer: plain structs over
// *sql.DB, one file per table. This file defines sentinel error values
// shared across repositories so handlers can translate storage failures
// into the right HTTP status without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert or update would violate the
// unique constraint on users.email. Handlers map it to HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no active row.
var ErrUserNotFound = errors.New("user not found")

// ErrProductNotFound is returned when a product lookup matches no active row.
var ErrProductNotFound = errors.New("product not found")

// ErrOutOfStock is returned by the conditional stock decrement when the
// product exists but its stock is already zero. Handlers map it to 400.
var ErrOutOfStock = errors.New("product is out of stock")
