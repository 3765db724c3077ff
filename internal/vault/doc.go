// Package vault is the encryption boundary for preset commands.
//
// Commands are sealed with AES-256-GCM under a key derived from a master
// passphrase via PBKDF2-HMAC-SHA256. Every seal uses a fresh random salt
// and nonce; the stored ciphertext is base64(salt || nonce || sealed), so
// the passphrase is the only durable secret and encrypted presets remain
// decryptable across process restarts.
//
// GCM authentication means tampered or corrupt ciphertext fails with
// ErrDecryption instead of decrypting to garbage that could be executed.
//
// The passphrase is resolved, in order, from an explicit option, the
// CMDSET_PASSPHRASE environment variable, a short-lived session cache
// file, or an interactive no-echo prompt.
package vault
