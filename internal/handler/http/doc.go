// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API under /api/users. Cross-cutting concerns such as bearer
// authentication, request tracing, access logging, metrics and response
// compression are handled in this package before requests are delegated to
// the service layer. Role checks are left to the service layer.
package http
