// Package server implements the lookup endpoint.
//
// # Endpoint
//
//	GET /{id}
//	X-API-KEY: <key>
//
// Responses:
//
//   - 400 text/plain "missing token" when the key header is absent or empty
//   - 403 text/plain "bad api key" when the key is not in the key ring
//   - 200 application/json with the record at position id, or the NotFound
//     record when id is not an integer in [1, number of records]
//
// The key check comes first; an identifier is never the reason for an error
// status. The 403 body does not echo the key or its length.
//
// # State
//
// Handlers read only the App passed to New. App, its Index and its KeyRing
// have no mutating methods, so requests need no locking.
//
// # Middleware
//
// Requests pass through chi's Recoverer, a UUID request id, request
// logging and, if rate_limit is set, a shared token bucket.
package server
