package repository

import "errors"

var (
	// ErrConflict signals an attempt to remap an existing street to a
	// different district, or any other unique-key collision.
	ErrConflict = errors.New("conflict with existing record")

	// ErrNotFound signals a lookup miss.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyRunning signals a crawl start while a cycle is in flight.
	ErrAlreadyRunning = errors.New("crawl is already running")

	// ErrTransport signals a fetch or parse failure against the external
	// listing source, including timeouts.
	ErrTransport = errors.New("transport failure")

	// ErrStorage signals a transaction or commit failure in the store.
	ErrStorage = errors.New("storage failure")
)
