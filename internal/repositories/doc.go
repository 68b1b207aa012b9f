// Package repositories implements SQLite persistence for all domain entities.
//
// A single generic [Repo] drives CRUD for every entity through a declarative
// [Mapping] describing its table, columns, and sort allow-list. Repositories
// run against a caller-supplied [DBTX] (either *sql.DB or *sql.Tx) and never
// commit or roll back: the transaction boundary belongs to the caller, even
// when an error propagates out of a repository call.
//
// Key behaviors:
//   - [Repo.ApplySorting] : allow-listed sort fields with a mandatory ascending
//     primary-key tie-break, skipped only when the sort column is the primary key
//   - [Repo.Paginate] : total-count-aware pages sharing one WHERE predicate,
//     with ORDER BY stripped from the count
//   - [Repo.GetOrCreate] : natural-key upsert with a single bounded conflict retry
//   - [Repo.Create] : created_by attribution from the caller's context, falling
//     back to the system actor materialized during setup
//
// Sequence numbers provide stable, human-readable ordering (e.g., room #42)
// independent of UUIDs and creation timestamps. [NextSequence] advances
// per-table counters held in dedicated sequence tables.
package repositories
