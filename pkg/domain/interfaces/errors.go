package interfaces

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned by Get style lookups when no row matches
	ErrNotFound = goerr.New("not found")

	// ErrResponseLocked is returned by ResponseRepository.Upsert when the
	// stored response is already submitted. The check and the write happen
	// atomically inside the backend.
	ErrResponseLocked = goerr.New("response is already submitted")
)
