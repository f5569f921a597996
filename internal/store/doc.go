// Package store provides file-based persistence for Ciphera’s core data.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking. Stored files typically live under the user’s configured
// home directory.
//
// The package includes stores for:
//   - Identity keys (IdentityFileStore), Argon2id-encrypted
//   - Signed and one-time pre-keys (PrekeyFileStore)
//   - Cached pre-key bundles (BundleFileStore)
//   - Double Ratchet conversation state (ConversationFileStore), scrypt-encrypted
package store
