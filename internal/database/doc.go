// Package database provides SQLite-based storage for run history.
//
// Every search run is recorded: the query, the place list, and each record
// collected. The history command reads this store to show past runs without
// re-spending API quota.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
