// Package common contains shared constants, sentinel errors and small helpers
// used across Retro Revive components.
package common

// GalleryStorageKey is the local storage key holding the saved restorations
// as one serialized JSON array.
const GalleryStorageKey = "saved-restorations"

// SaltSize is the number of random bytes used to salt account passwords.
const SaltSize = 32
