// Package sshx establishes authenticated SSH/SFTP sessions and parses
// private-key material supplied as configuration text.
package sshx

import (
	"context"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/dmitrijs2005/sftpwriter/internal/common"
	"github.com/dmitrijs2005/sftpwriter/internal/logging"
)

// Algorithm tags a parsed private key with its key type.
type Algorithm string

const (
	AlgorithmRSA     Algorithm = "RSA"
	AlgorithmDSA     Algorithm = "DSA"
	AlgorithmECDSA   Algorithm = "ECDSA"
	AlgorithmEd25519 Algorithm = "Ed25519"
)

// algorithmOrder is the fallback sequence for key parsing. The order matters:
// malformed material can spuriously decode under the wrong algorithm class,
// so attempts must run RSA, DSA, ECDSA, Ed25519 exactly.
var algorithmOrder = []Algorithm{AlgorithmRSA, AlgorithmDSA, AlgorithmECDSA, AlgorithmEd25519}

// Credential is a parsed private-key credential ready for public-key auth.
type Credential struct {
	Algorithm Algorithm
	Signer    ssh.Signer
}

// KeyParser turns raw private-key text into a typed Credential.
type KeyParser struct {
	log logging.Logger
}

func NewKeyParser(log logging.Logger) *KeyParser {
	return &KeyParser{log: log}
}

// Parse decodes raw key material, trying each supported algorithm in order.
// An empty input yields (nil, nil): the caller falls back to password auth.
// If the material is encrypted, passphrase is used to decrypt it. When no
// algorithm accepts the input the result wraps common.ErrInvalidCredential;
// retrying cannot help, the run must stop.
func (p *KeyParser) Parse(ctx context.Context, raw, passphrase string) (*Credential, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	data := []byte(raw)
	for _, alg := range algorithmOrder {
		signer, err := parseAs(alg, data, passphrase)
		if err != nil {
			p.log.Warn(ctx, "private key did not parse, trying next algorithm",
				"algorithm", string(alg), "error", err.Error())
			continue
		}
		p.log.Debug(ctx, "private key parsed", "algorithm", string(alg))
		return &Credential{Algorithm: alg, Signer: signer}, nil
	}

	return nil, fmt.Errorf("%w: key material is not a valid RSA, DSA, ECDSA or Ed25519 private key",
		common.ErrInvalidCredential)
}

// parseAs decodes data and accepts the result only when the concrete key
// type matches alg.
func parseAs(alg Algorithm, data []byte, passphrase string) (ssh.Signer, error) {
	key, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if !errors.As(err, &missing) || passphrase == "" {
			return nil, err
		}
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(passphrase))
		if err != nil {
			return nil, err
		}
	}

	key = normalizeKey(key)
	if !matchesAlgorithm(alg, key) {
		return nil, fmt.Errorf("not a %s key", alg)
	}

	return ssh.NewSignerFromKey(key)
}

// normalizeKey flattens pointer forms that ParseRawPrivateKey returns for
// some encodings (OpenSSH-format Ed25519 keys come back as a pointer).
func normalizeKey(key any) any {
	if k, ok := key.(*ed25519.PrivateKey); ok {
		return *k
	}
	return key
}

func matchesAlgorithm(alg Algorithm, key any) bool {
	switch alg {
	case AlgorithmRSA:
		_, ok := key.(*rsa.PrivateKey)
		return ok
	case AlgorithmDSA:
		_, ok := key.(*dsa.PrivateKey)
		return ok
	case AlgorithmECDSA:
		_, ok := key.(*ecdsa.PrivateKey)
		return ok
	case AlgorithmEd25519:
		_, ok := key.(ed25519.PrivateKey)
		return ok
	}
	return false
}
