// Package services defines the [Service] interface for DSP artist lookups and implements it for Spotify, plus a thin client for the hosted billing API.
//
// # Service Interface
//
// Artist search and retrieval share a common abstraction so the connect flow
// and the follower refresher work against any provider.
//
// # Spotify Implementation
//
// [SpotifyService] supports two authentication modes:
//   - Client credentials, used for artist search and public artist lookups.
//   - Authorization code, used when an artist connects their account so the
//     dashboard can verify ownership of the linked artist profile.
//
// The [oauth2.Client] automatically refreshes expired tokens using the refresh token.
//
// # Billing Implementation
//
// [BillingService] talks to the hosted billing API over JSON. It reports the
// subscription plan, status, and whether the account is in dunning (payment
// past due, grace period running).
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrArtistNotFound] : Artist ID not found
//
// # API Mappings
//
// Provider-specific JSON responses are converted to [models.Artist]:
//   - Spotify: Maps [SpotifyArtist] → [models.Artist], picking the largest image
package services
