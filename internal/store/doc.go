// Package store provides the store manager: the single entry point callers
// use to work with a preset store.
//
// The manager owns the in-memory preset table, the encryption vault, and
// the SQLite persistence adapter. One SQLite database file per store lives
// under the working directory; every mutation persists synchronously, and
// explicit Save/Reload round-trip the full table. Export and Import speak
// the versioned JSON interchange format.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// A Manager is single-threaded by design: no internal locking, no
// background goroutines. Sharing one handle across goroutines requires
// external serialization.
package store
