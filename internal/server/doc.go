// Package server wires and runs the application's HTTP server.
//
// It handles startup, the per-request timeout, signal handling and graceful
// shutdown.
package server
