// Package metadata provides key/value repositories backing the client's
// session storage scopes.
//
// Implementations:
//
//   - MemoryRepository: process-lifetime storage, used for the session scope
//     (access token, cached profile). Nothing outlives the CLI process.
//   - SQLiteRepository: the "metadata" table of the local client database,
//     used for the persistent scope (refresh token).
//   - RedisRepository: a Redis hash, an alternative persistent scope shared
//     between several client processes or machines.
//
// All implementations are safe for concurrent use.
package metadata
