package common

import "errors"

var (
	// ErrConfiguration marks missing or invalid startup parameters. It is fatal.
	ErrConfiguration = errors.New("configuration error")

	// ErrMetadataFetch marks an unreachable content store or malformed metadata.
	// The affected event is dropped.
	ErrMetadataFetch = errors.New("metadata fetch error")

	// ErrStoreWrite marks a projection write rejected by the store.
	// The affected event is dropped.
	ErrStoreWrite = errors.New("store write error")

	// ErrDecode marks a log that does not match the expected event signature.
	ErrDecode = errors.New("decode error")
)
