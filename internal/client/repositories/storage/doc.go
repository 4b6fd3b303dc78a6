// Package storage models device-local key/value storage.
//
// Two implementations are provided:
//
//   - SQLiteStore keeps pairs in the local_storage table of the device
//     database (see internal/client/migrations). Update runs in one SQL transaction.
//   - MemoryStore keeps pairs in a map guarded by a mutex. Update works on a
//     copy and swaps it in on success.
//
// Values are opaque bytes; higher layers (records.BlobStore) decide how they
// are encoded.
package storage
