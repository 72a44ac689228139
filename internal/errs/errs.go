// Package errs defines the error types returned to API clients.
//
// Every failure leaving the HTTP layer is shaped as an HTTPError so clients
// receive consistent, machine readable error bodies.
package errs
