// Package common defines sentinel errors shared by the storage and checker
// layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal = errors.New("internal error")

	// configuration errors
	ErrUnknownBackend = errors.New("unknown backend")
)
