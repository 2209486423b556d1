// Package ir provides the shared types for compatibility overrides.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key conventions:
//   - Digests are case-sensitive; flag names ignore ASCII case only,
//     through FoldName
//   - All JSON tags use snake_case
//   - Golden snapshots and dumps go through MarshalCanonical
package ir
