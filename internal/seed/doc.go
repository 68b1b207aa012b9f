// Package seed implements idempotent baseline seeding for the timetab store.
//
// The core abstraction is [Seeder], which walks entity kinds in a fixed
// dependency order (actors, organisations, campuses, rooms - parents strictly
// before children) and decides one action per baseline record: insert when the
// natural key is absent, update when a tracked field diverges, skip otherwise.
//
// [Seeder.Plan] computes the action set read-only; [Seeder.Apply] re-runs the
// identical decision logic inside a single transaction and executes it,
// rolling everything back on any failure and committing exactly once at the
// end. Against identical starting state, the two produce identical action
// sets, and re-running Apply on a seeded store yields all-skip.
//
// Both paths pass a guard chain first: seeding refuses to run against a
// production environment without an explicit force override, and refuses to
// run against a schema behind head unless an inline upgrade is requested.
package seed
