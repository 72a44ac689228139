// Package handler is the first layer after the router.
//
// It binds and validates requests using the validation package, calls the
// service layer and writes responses. Every endpoint goes through the same
// typed pipeline (Handle / HandleNoContent) so binding, logging, tracing
// and timing behave identically.
package handler
