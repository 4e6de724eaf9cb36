// Package hashing computes the signature keys used to resolve functions and
// variables. A function is identified by its namespace path, name and arity
// (the coarse key) and, when overloads share those, by the ordered type
// identities of its parameters (the fine key, combined with the coarse one).
//
// Keys are process-local: they are deterministic within a process but are
// never persisted and may change between builds.
package hashing
