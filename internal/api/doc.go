// Package api contains the client-side contract with the Tia backend.
//
// The package provides:
//  1. A transport-agnostic interface (Client) covering every backend
//     operation the coordinators use: Upload, Delete, Query, Login, Signup,
//     ListDocuments, and Ping.
//  2. A concrete HTTP implementation (HTTPClient) speaking JSON (multipart
//     for uploads) against the backend's /api/v1 routes, with a per-request
//     timeout so in-flight UI state always resolves.
//
// # Error handling
//
// Common conditions are sentinel errors matchable with errors.Is:
// ErrUnavailable (network failure, timeout, upstream 5xx gateway statuses)
// and ErrUnauthorized (401/403). Other non-2xx responses become *APIError,
// carrying the backend's human-readable "detail" text when present; callers
// show that text to the user directly.
package api
