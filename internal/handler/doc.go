// Package handler builds the transport handlers served by the application.
//
// Only the HTTP transport exists; its routes and middleware live in the
// http subpackage.
package handler
