// Package store provides the dedup ledger implementations.
//
// Three backends satisfy domain.ItemStore: an in-memory store for
// single-instance and test use, a Postgres store for durable persistence,
// and a Redis store for shared ephemeral state. All of them upsert by
// (subject, url) with atomic replace and answer trailing-window queries
// ordered by publish time descending.
package store
