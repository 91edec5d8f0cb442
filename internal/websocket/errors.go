package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidEvent    = errors.New("invalid event format")
	ErrUnauthorized    = errors.New("unauthorized")

	// ErrGatewayNotReady is returned when a broadcast is attempted before
	// the hub has been started. Callers treat delivery as best-effort.
	ErrGatewayNotReady = errors.New("realtime gateway not initialized")
)
