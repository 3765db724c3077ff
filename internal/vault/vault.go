package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"
)

const (
	saltLen    = 16
	nonceLen   = 12
	keyLen     = 32
	iterations = 10000

	// PassphraseEnv names the environment variable consulted before the
	// session cache and the interactive prompt.
	PassphraseEnv = "CMDSET_PASSPHRASE"
)

// ErrDecryption indicates ciphertext that could not be authenticated and
// decrypted: wrong passphrase, truncation, or tampering. Callers must
// never execute the undecrypted bytes.
var ErrDecryption = errors.New("decryption failed")

// IsDecryptionError reports whether err stems from a failed decryption.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryption)
}

// PromptFunc obtains the master passphrase from the user.
type PromptFunc func() (string, error)

// Options configures a Vault.
type Options struct {
	// Dir is where the session cache file lives (the store's working
	// directory).
	Dir string

	// TTL bounds the session cache lifetime. Zero disables caching.
	TTL time.Duration

	// Passphrase, when non-empty, is used directly and no other source
	// is consulted.
	Passphrase string

	// Prompt overrides the interactive prompt. Defaults to a no-echo
	// terminal read.
	Prompt PromptFunc
}

// Vault seals and opens command strings under a process-scoped key source.
// It is stateless beyond the cached passphrase; Close zeroes that cache.
//
// Vault is not safe for concurrent use.
type Vault struct {
	dir        string
	ttl        time.Duration
	passphrase []byte
	prompt     PromptFunc
	closed     bool
}

// New creates a vault. No key material is touched until the first Seal or
// Open call.
func New(opts Options) *Vault {
	prompt := opts.Prompt
	if prompt == nil {
		prompt = terminalPrompt
	}
	return &Vault{
		dir:        opts.Dir,
		ttl:        opts.TTL,
		passphrase: []byte(opts.Passphrase),
		prompt:     prompt,
	}
}

// Seal encrypts plaintext and returns the base64 ciphertext suitable for
// storage in a preset's command field.
func (v *Vault) Seal(plaintext string) (string, error) {
	pass, err := v.resolvePassphrase()
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	salt := make([]byte, saltLen)
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("seal: generate salt: %w", err)
	}
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("seal: generate nonce: %w", err)
	}

	gcm, err := newGCM(pass, salt)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	combined := make([]byte, 0, saltLen+nonceLen+len(sealed))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, sealed...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// Open decrypts ciphertext produced by Seal and returns the plaintext
// command. Any authentication or framing failure is an ErrDecryption; a
// failed open also invalidates the session cache so a wrong passphrase is
// not silently reused.
func (v *Vault) Open(ciphertext string) (string, error) {
	pass, err := v.resolvePassphrase()
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}

	combined, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("open: malformed ciphertext: %w", ErrDecryption)
	}
	if len(combined) < saltLen+nonceLen {
		return "", fmt.Errorf("open: truncated ciphertext: %w", ErrDecryption)
	}

	salt := combined[:saltLen]
	nonce := combined[saltLen : saltLen+nonceLen]
	sealed := combined[saltLen+nonceLen:]

	gcm, err := newGCM(pass, salt)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		v.invalidate()
		return "", fmt.Errorf("open: %w", ErrDecryption)
	}
	return string(plaintext), nil
}

// Clear wipes the cached passphrase, in memory and on disk.
func (v *Vault) Clear() error {
	zero(v.passphrase)
	v.passphrase = nil
	return v.clearSession()
}

// Close zeroes key material. Idempotent; the vault is unusable afterwards.
func (v *Vault) Close() {
	if v.closed {
		return
	}
	zero(v.passphrase)
	v.passphrase = nil
	v.closed = true
}

// resolvePassphrase walks the passphrase sources and caches the winner for
// the rest of the vault's lifetime.
func (v *Vault) resolvePassphrase() ([]byte, error) {
	if v.closed {
		return nil, errors.New("vault is closed")
	}
	if len(v.passphrase) > 0 {
		return v.passphrase, nil
	}

	if env := os.Getenv(PassphraseEnv); env != "" {
		v.passphrase = []byte(env)
		return v.passphrase, nil
	}

	if cached, ok := v.readSession(); ok {
		v.passphrase = cached
		return v.passphrase, nil
	}

	entered, err := v.prompt()
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	if entered == "" {
		return nil, errors.New("passphrase must not be empty")
	}
	v.passphrase = []byte(entered)
	if err := v.writeSession(v.passphrase); err != nil {
		// Caching is best-effort; the passphrase itself still works.
		return v.passphrase, nil
	}
	return v.passphrase, nil
}

// invalidate drops a passphrase that failed to decrypt, forcing the next
// operation to resolve a fresh one.
func (v *Vault) invalidate() {
	zero(v.passphrase)
	v.passphrase = nil
	_ = v.clearSession()
}

func newGCM(passphrase, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(passphrase, salt, iterations, keyLen, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func terminalPrompt() (string, error) {
	fmt.Fprint(os.Stderr, "Enter master password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
