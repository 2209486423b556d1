// Package engine applies per-content compatibility overrides to the
// engine's runtime flag state.
//
// ARCHITECTURE:
//
// Two phases, in order:
//  1. Load: ProcessCompatibilities ingests parsed compatibility sections
//     into two registries, one for names to force on and one for names to
//     force off.
//  2. Apply: ApplyCompatibility(digest) resets the FlagState, then resolves
//     every name recorded for the digest against the known-flag table and
//     writes the result into the FlagState.
//
// The enable pass always runs before the disable pass, so a name recorded
// in both directions for the same digest ends up disabled and active.
//
// Name resolution:
//   - The name must start with "comp_" (case-insensitive)
//   - The remainder is matched case-insensitively against the known-flag
//     table in table order; the first match wins
//   - Failing that, the alias table is consulted (a single legacy entry,
//     "comp_jump")
//   - Anything else is discarded silently and logged at debug level
//
// Nothing in this package returns an error. Compatibility data is
// community-authored and must degrade to "no effect" rather than abort a
// level load.
//
// There is no locking. Loading happens once; applying happens once per
// level load, never concurrently with loading.
package engine
