// Package session persists the logged-in browser state as a cookie blob.
//
// A blob is valid while it exists and its modification time is within the
// configured number of days. When it is missing or stale an Authenticator
// opens a visible browser, waits for the operator to log in and press Enter,
// and saves every cookie of the resulting session.
//
// Blobs can optionally be sealed with AES-GCM. The key is derived with PBKDF2
// from a passphrase read from MARKETPULSE_SESSION_PASSPHRASE or, failing
// that, from the system keyring.
package session
