// Package services defines the [Adapter] interface for music platforms and implements it for Spotify, Apple Music, SoundCloud and YouTube.
//
// # Adapter Interface
//
// All platforms expose the same capability set, letting the orchestration
// layer treat them symmetrically and run calls concurrently without
// platform-specific branching:
//   - ResolveURL : direct metadata fetch for a URL on the adapter's own platform
//   - Search : best-effort free-text lookup taking the first match
//   - CreatePlaylist : create a playlist seeded with native track ids
//   - AddToPlaylist : append one native track id, idempotent for the caller
//
// # Platform Detection
//
// [Detect] classifies a URL into a [Platform] tag by host matching. It is a
// pure, total function: anything unrecognized maps to [Unknown].
//
// # Error Handling
//
// "Not found" and "no match" are nil results, not errors. Transport and auth
// failures are wrapped in [*PlatformError], which unwraps to
// [shared.ErrPlatform] so callers can classify failures without inspecting
// the platform. Whether a platform failure aborts the surrounding operation
// is the caller's decision: the resolver fails submissions on base-resolve
// errors but swallows search-fallback errors, and the fan-out records append
// failures without raising them.
//
// # Request Lifetime
//
// The core imposes no timeout contract; each adapter bounds its own requests
// with a 15s [http.Client] timeout and paces them with a [rate.Limiter].
//
// # Write Targets
//
// Spotify, Apple Music and SoundCloud accept playlist writes. YouTube is
// metadata-only: its write operations fail with a platform error because
// they would need a per-user OAuth grant.
package services
