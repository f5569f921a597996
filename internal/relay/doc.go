// Package relay provides an HTTP implementation of the domain.RelayClient
// interface used by ciphera.
//
// The relay acts as a store-and-forward service for encrypted messages and
// pre-key bundles between peers. This package offers a concrete HTTP client
// for interacting with such a relay server.
//
// Supported operations include:
//   - Publishing our pre-key bundle to the relay.
//   - Fetching a peer's pre-key bundle.
//   - Sending an encrypted message to a peer via the relay.
//   - Fetching pending messages for a user.
//   - Acknowledging received messages.
//
// All requests are CBOR over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as errors with the HTTP method,
// request path, and status text to aid diagnostics.
package relay
