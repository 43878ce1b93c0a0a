// Package client is a Go client for the task list REST API.
//
// The client injects the bearer token of the current session into every
// request, retries transport failures of idempotent requests with
// exponential backoff, and purges the session when the server rejects the
// token. Sessions are persisted by a SessionStore; FileSession keeps them in
// a JSON file under the keys "token" and "user".
package client
