package token

import (
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm selects the signing scheme used by the codec.
type Algorithm string

const (
	AlgHS256 Algorithm = "HS256" // HMAC-SHA-256 symmetric secret
	AlgPS256 Algorithm = "PS256" // RSA-PSS with SHA-256
	AlgEdDSA Algorithm = "EdDSA" // Ed25519
)

var ErrUnknownAlgorithm = errors.New("unknown signing algorithm")

// Keyring bundles the signing key with every key trusted for verification.
// It is immutable after construction: rotation builds a new Keyring and
// swaps it into the codec atomically, so tokens signed by the rotated-out
// key keep verifying for as long as its verify key stays in the new ring.
type Keyring struct {
	alg        Algorithm
	method     jwt.SigningMethod
	signKey    any
	verifyKeys []any
}

// Algorithm returns the ring's signing algorithm.
func (k *Keyring) Algorithm() Algorithm { return k.alg }

// NewHMACKeyring builds an HS256 ring. previous holds rotated-out secrets
// that must keep verifying during the rotation overlap window.
func NewHMACKeyring(secret []byte, previous ...[]byte) (*Keyring, error) {
	if len(secret) == 0 {
		return nil, errors.New("hmac secret must not be empty")
	}
	verify := []any{secret}
	for _, p := range previous {
		verify = append(verify, p)
	}
	return &Keyring{alg: AlgHS256, method: jwt.SigningMethodHS256, signKey: secret, verifyKeys: verify}, nil
}

// NewRSAPSSKeyring builds a PS256 ring around priv. previous holds public
// keys of rotated-out pairs.
func NewRSAPSSKeyring(priv *rsa.PrivateKey, previous ...*rsa.PublicKey) (*Keyring, error) {
	if priv == nil {
		return nil, errors.New("rsa private key must not be nil")
	}
	verify := []any{&priv.PublicKey}
	for _, p := range previous {
		verify = append(verify, p)
	}
	return &Keyring{alg: AlgPS256, method: jwt.SigningMethodPS256, signKey: priv, verifyKeys: verify}, nil
}

// NewEd25519Keyring builds an EdDSA ring around priv. previous holds public
// keys of rotated-out pairs.
func NewEd25519Keyring(priv ed25519.PrivateKey, previous ...ed25519.PublicKey) (*Keyring, error) {
	if len(priv) == 0 {
		return nil, errors.New("ed25519 private key must not be empty")
	}
	verify := []any{priv.Public()}
	for _, p := range previous {
		verify = append(verify, p)
	}
	return &Keyring{alg: AlgEdDSA, method: jwt.SigningMethodEdDSA, signKey: priv, verifyKeys: verify}, nil
}

// LoadKeyring builds a Keyring from configuration values. For HS256 the
// secret (plus any rotated-out secrets) is used directly; for PS256 and
// EdDSA the private key is read from a PKCS#8 PEM file and previousKeyFiles
// name PKIX PEM public keys kept alive for the rotation window.
func LoadKeyring(alg Algorithm, secret string, previousSecrets []string, privateKeyFile string, previousKeyFiles []string) (*Keyring, error) {
	switch alg {
	case AlgHS256:
		prev := make([][]byte, 0, len(previousSecrets))
		for _, s := range previousSecrets {
			prev = append(prev, []byte(s))
		}
		return NewHMACKeyring([]byte(secret), prev...)

	case AlgPS256:
		key, err := loadPrivateKey(privateKeyFile)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%s: not an RSA private key", privateKeyFile)
		}
		prev, err := loadRSAPublicKeys(previousKeyFiles)
		if err != nil {
			return nil, err
		}
		return NewRSAPSSKeyring(rsaKey, prev...)

	case AlgEdDSA:
		key, err := loadPrivateKey(privateKeyFile)
		if err != nil {
			return nil, err
		}
		edKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%s: not an Ed25519 private key", privateKeyFile)
		}
		prev, err := loadEd25519PublicKeys(previousKeyFiles)
		if err != nil {
			return nil, err
		}
		return NewEd25519Keyring(edKey, prev...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
}

func loadPrivateKey(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block found", path)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", path, err)
	}
	return key, nil
}

func loadPublicKey(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block found", path)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key %s: %w", path, err)
	}
	return key, nil
}

func loadRSAPublicKeys(paths []string) ([]*rsa.PublicKey, error) {
	keys := make([]*rsa.PublicKey, 0, len(paths))
	for _, p := range paths {
		key, err := loadPublicKey(p)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%s: not an RSA public key", p)
		}
		keys = append(keys, rsaKey)
	}
	return keys, nil
}

func loadEd25519PublicKeys(paths []string) ([]ed25519.PublicKey, error) {
	keys := make([]ed25519.PublicKey, 0, len(paths))
	for _, p := range paths {
		key, err := loadPublicKey(p)
		if err != nil {
			return nil, err
		}
		edKey, ok := key.(ed25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%s: not an Ed25519 public key", p)
		}
		keys = append(keys, edKey)
	}
	return keys, nil
}
