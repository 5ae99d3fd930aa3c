// Package models defines domain entities for the bmat collaborative playlist service.
//
// The package contains three categories of types:
//
// 1. Identity types produced and consumed by the resolution pipeline:
//   - [TrackIdentity] : transient per-platform identifiers merged with base precedence
//   - [SoftUser] : caller-supplied submitter identity, consumed as-is
//
// 2. Persisted entities:
//   - [Track] : one submission with its recovered platform identifiers
//   - [Playlist] : one cohort's shared playlist with per-platform ids
//
// 3. Cohort keys:
//   - [Filter] : a three-valued team/role component where the wildcard is a
//     distinct value matching only NULL columns
//   - [Cohort] : the (team, role) pair that owns at most one [Playlist]
//
// Nullable columns surface as *string so JSON responses carry explicit nulls.
package models
