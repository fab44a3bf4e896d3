// Package models defines domain entities and persistence interfaces for the tonelink link-in-bio service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Artist] : DSP artist metadata used by search/connect flows
//   - [BillingStatus] : Subscription state reported by the hosted billing API
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Profile] : Artist profiles with username, brand color, avatar, and connected Spotify artist
//   - [Link] : Ordered social links per profile with cached follower counts
//   - [Subscription] : Cached billing state per profile, including dunning
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
