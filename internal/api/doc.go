// Package api contains the HTTP handlers for the public and internal
// surfaces: request decoding and validation, invocation of the service
// layer, and uniform mapping of domain errors to status codes and safe
// response bodies.
package api
