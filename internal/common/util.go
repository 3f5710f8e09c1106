package common

import "crypto/rand"

// RandBytes returns n cryptographically random bytes. It panics if the
// system random source fails, which is not a recoverable condition for
// key or nonce material.
func RandBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
