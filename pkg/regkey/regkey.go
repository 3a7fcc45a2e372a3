// Package regkey generates and validates the opaque registration keys that
// let unregistered users join a course. A key is a keyed, versioned
// encryption of the owner's unique id concatenated with a random nonce, so
// that it can be validated offline against any known key version.
package regkey

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrMalformedKey      = errors.New("malformed registration key")
	ErrUnknownKeyVersion = errors.New("unknown registration key version")
)

// Encrypter holds the versioned encryption keys. The highest version is used
// for newly generated registration keys; all versions remain valid for
// decryption so that old keys survive a rotation.
type Encrypter struct {
	keys    map[int][]byte
	current int
}

// New parses a key spec of the form "1:<hex key>,2:<hex key>". Each key must
// be 32 bytes of hex.
func New(spec string) (*Encrypter, error) {
	keys := make(map[int][]byte)
	current := 0

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		version, rawKey, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("invalid key spec entry %q", part)
		}
		v, err := strconv.Atoi(version)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid key version %q", version)
		}
		key, err := hex.DecodeString(rawKey)
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("key version %d is not %d bytes of hex", v, chacha20poly1305.KeySize)
		}
		keys[v] = key
		if v > current {
			current = v
		}
	}

	if current == 0 {
		return nil, errors.New("no encryption keys configured")
	}
	return &Encrypter{keys: keys, current: current}, nil
}

// Generate creates a fresh registration key for the given unique id. The
// random nonce makes every generated key distinct even for the same owner.
func (e *Encrypter) Generate(uniqueID string) (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	nonce := binary.BigEndian.Uint64(buf[:])

	return e.encrypt(e.current, uniqueID+"#"+strconv.FormatUint(nonce, 10))
}

// Decrypt recovers the plaintext of a registration key.
func (e *Encrypter) Decrypt(token string) (string, error) {
	versionStr, payload, found := strings.Cut(token, ".")
	if !found {
		return "", ErrMalformedKey
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return "", ErrMalformedKey
	}
	key, ok := e.keys[version]
	if !ok {
		return "", ErrUnknownKeyVersion
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrMalformedKey
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrMalformedKey
	}

	plaintext, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", ErrMalformedKey
	}
	return string(plaintext), nil
}

// Validate reports whether the registration key belongs to the given unique id.
func (e *Encrypter) Validate(token, uniqueID string) bool {
	plaintext, err := e.Decrypt(token)
	if err != nil {
		return false
	}
	return strings.HasPrefix(plaintext, uniqueID+"#")
}

// encrypt is deterministic per key version: the nonce is derived from the
// plaintext, so the same input always yields the same token under one key.
func (e *Encrypter) encrypt(version int, plaintext string) (string, error) {
	key, ok := e.keys[version]
	if !ok {
		return "", ErrUnknownKeyVersion
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("regkey-nonce"))
	mac.Write([]byte(plaintext))
	nonce := mac.Sum(nil)[:aead.NonceSize()]

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return strconv.Itoa(version) + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}
