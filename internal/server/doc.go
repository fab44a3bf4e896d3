// Package server exposes the public HTTP API for profile pages and the dashboard.
//
// # Routing
//
// Routes are registered on a [chi] router with request logging, panic
// recovery, and crawler filtering applied to every request. Mutating routes
// additionally require a bearer token that resolves to the owning profile.
//
// # Error Responses
//
// All errors are JSON objects of the shape {"error": "..."} with a stable
// message per status:
//   - 400 "validation failed"
//   - 401 "Unauthorized"
//   - 403 "Forbidden"
//   - 404 "Profile not found" / "Link not found"
//   - 500 "internal error"
//
// # Signed Links
//
// GET /api/sign/{id} mints a short-lived HMAC-signed redirect URL for a link.
// The companion GET /api/link/{id} endpoint verifies the signature when one
// is present and 302-redirects to the destination.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback used by
// the CLI connect flow. It validates the state parameter, exchanges the code
// for tokens, and delivers the result through a single-shot channel. A
// temporary server on the loopback interface hosts it for the duration of
// the flow.
package server
