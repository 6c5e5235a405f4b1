// Package hash provides credential hashing primitives.
//
// Implementations live behind a small interface so the chosen algorithm stays
// opaque to the rest of the application.
package hash
