// Package server provides the HTTP layer: a small router over
// [net/http.ServeMux] with middleware support, request logging and panic
// recovery, and the JSON API handlers for track submission, playlist
// builds and the team/role name lists.
//
// Routes are registered with method-qualified patterns, so GET and POST
// on the same path dispatch to separate handlers. Handlers translate the
// error taxonomy in the shared package into status codes and always
// respond with JSON.
package server
