// Package secrets provides the symmetric cipher codec for capi's dataset blob.
//
// # Blob Layout
//
// An encrypted dataset is stored as a single file:
//
//	[12-byte nonce][ciphertext][16-byte authentication tag]
//
// The nonce is generated fresh by every Seal call and stored in the clear.
// The key is never written next to the blob; it travels as base64 text in an
// environment variable and is decoded with DecodeKey at the boundary.
//
// # Algorithms
//
// Two AEAD constructions share the layout above:
//
//   - aes-256-gcm (default), compatible with blobs produced by WebCrypto
//   - chacha20-poly1305, from golang.org/x/crypto
//
// The algorithm is not recorded in the blob. Opening with the wrong one
// fails exactly like opening with the wrong key.
//
// # Failure Reporting
//
// Open and OpenBlob return errors.ErrAuthentication for every verification
// failure. Callers cannot tell a wrong key from a flipped bit, and neither
// can an attacker probing the service.
package secrets
