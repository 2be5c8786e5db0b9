// Package api implements the HTTP and WebSocket surface of the component store.
//
// This package provides:
//   - Network upload (multipart iidm_file or raw JSON body)
//   - Typed component updates validated against each kind's patch schema
//   - Server-Sent Events and WebSocket streams of post-update snapshots
//   - Read routes for components, kinds, patch schemas and update history
//   - Middleware stack (request ID, metrics, logging, recovery, CORS, body limits)
//   - Optional bearer JWT authorisation on the mutating routes
//
// # Routes
//
//	POST /api/iidm/upload
//	POST /api/iidm/update/{kind}
//	GET  /api/iidm/stream/{kind}/{id}
//	GET  /api/iidm/ws/{kind}/{id}
//	GET  /api/iidm/components/{id}
//	GET  /api/iidm/kinds
//	GET  /api/iidm/schema/{kind}
//	GET  /api/iidm/history/{id}
//	GET  /api/health
//	GET  /metrics
//
// # Error Mapping
//
// Validation failures answer 400, unknown kinds and identifiers 404, a record
// of another kind 409, and wiring defects 500. Every error body is an Error.
package api
