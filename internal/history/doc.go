// Package history provides SQLite-based storage for past run summaries.
//
// Every completed classification run can be appended to the history
// database, which supports:
//   - Listing past runs with their verdict counts
//   - Filtering by scanned directory
//   - Aggregate totals across stored runs
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// plain append-only file because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Filtering and aggregation come for free as SQL
// 4. WAL mode provides good concurrent read performance
package history
