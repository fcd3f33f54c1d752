package services

import "errors"

var (
	// ErrNotAuthenticated means an operation needing a user identity was
	// attempted without one. Rejected before any network call.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyQuestion means a chat submission was blank after trimming.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrBusy means a single-flight operation is already outstanding.
	ErrBusy = errors.New("request already in flight")

	// ErrDeleteInFlight means a delete for the same document is still
	// outstanding; the caller must wait for it to resolve.
	ErrDeleteInFlight = errors.New("delete already in flight for this document")

	// ErrNoFiles means an upload batch contained no candidates at all.
	ErrNoFiles = errors.New("no files selected")
)
