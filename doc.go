// Package instantdb provides minimal JSON file backed stores.
//
// # Overview
//
// [Database] is a key/value store persisted as one JSON object. [Document] is
// an ordered list of records persisted as one JSON array. Both load the whole
// file for every operation and rewrite it after every mutation; there is no
// cache, index or lock.
//
// [Action] stages edits to a Database in memory until [Action.Commit], and
// can restore the content the Database had when the Action was created with
// [Action.Rollback].
//
// # Values
//
// Stored values are what encoding/json produces when decoding into any: nil,
// bool, float64, string, []any and map[string]any. Values given by callers are
// normalized to these shapes before being stored. [Type] tags them.
//
// # Errors
//
// Errors returned by Database, Document and Action are [*Error] values
// matching one of [ErrStorage], [ErrFormat] or [ErrTypeMismatch] with
// errors.Is.
//
// # Concurrency
//
// None. Two writers on the same file interleave their read-modify-write
// cycles and the last write wins.
package instantdb
