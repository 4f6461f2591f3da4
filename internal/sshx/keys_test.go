package sshx

import (
	"context"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"math/big"
	"sync"
	"testing"

	"github.com/dmitrijs2005/sftpwriter/internal/common"
	"github.com/dmitrijs2005/sftpwriter/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake logger ----

type logEntry struct {
	msg  string
	args []any
}

type fakeLogger struct {
	mu      sync.Mutex
	entries map[string][]logEntry
}

func newFakeLogger() *fakeLogger {
	return &fakeLogger{entries: map[string][]logEntry{}}
}

func (f *fakeLogger) record(level, msg string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[level] = append(f.entries[level], logEntry{msg: msg, args: args})
}

func (f *fakeLogger) Debug(_ context.Context, msg string, args ...any) { f.record("debug", msg, args) }
func (f *fakeLogger) Info(_ context.Context, msg string, args ...any)  { f.record("info", msg, args) }
func (f *fakeLogger) Warn(_ context.Context, msg string, args ...any)  { f.record("warn", msg, args) }
func (f *fakeLogger) Error(_ context.Context, msg string, args ...any) { f.record("error", msg, args) }
func (f *fakeLogger) With(...any) logging.Logger                       { return f }

// attr extracts the value following key in a key-value args slice.
func (e logEntry) attr(key string) any {
	for i := 0; i+1 < len(e.args); i += 2 {
		if e.args[i] == key {
			return e.args[i+1]
		}
	}
	return nil
}

// ---- key fixtures ----

func rsaKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

// dsaKeyASN1 is the OpenSSL DSA private key structure.
type dsaKeyASN1 struct {
	Version int
	P, Q, G *big.Int
	Y, X    *big.Int
}

func dsaKeyPEM(t *testing.T) string {
	t.Helper()
	var key dsa.PrivateKey
	require.NoError(t, dsa.GenerateParameters(&key.Parameters, rand.Reader, dsa.L1024N160))
	require.NoError(t, dsa.GenerateKey(&key, rand.Reader))

	der, err := asn1.Marshal(dsaKeyASN1{
		Version: 0,
		P:       key.P, Q: key.Q, G: key.G,
		Y: key.Y, X: key.X,
	})
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "DSA PRIVATE KEY", Bytes: der}))
}

func ecdsaKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func ed25519KeyPEM(t *testing.T) string {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

// ---- tests ----

func TestParse_EmptyInputMeansNoCredential(t *testing.T) {
	p := NewKeyParser(newFakeLogger())

	for _, raw := range []string{"", "   ", "\n"} {
		cred, err := p.Parse(context.Background(), raw, "")
		require.NoError(t, err)
		assert.Nil(t, cred)
	}
}

func TestParse_SupportedAlgorithms(t *testing.T) {
	tests := []struct {
		alg Algorithm
		pem func(*testing.T) string
	}{
		{AlgorithmRSA, rsaKeyPEM},
		{AlgorithmDSA, dsaKeyPEM},
		{AlgorithmECDSA, ecdsaKeyPEM},
		{AlgorithmEd25519, ed25519KeyPEM},
	}

	for _, tc := range tests {
		t.Run(string(tc.alg), func(t *testing.T) {
			p := NewKeyParser(newFakeLogger())

			cred, err := p.Parse(context.Background(), tc.pem(t), "")
			require.NoError(t, err)
			require.NotNil(t, cred)
			assert.Equal(t, tc.alg, cred.Algorithm)
			assert.NotNil(t, cred.Signer)
		})
	}
}

func TestParse_InvalidKeyTriesAllAlgorithmsInOrder(t *testing.T) {
	log := newFakeLogger()
	p := NewKeyParser(log)

	cred, err := p.Parse(context.Background(), "definitely not a key", "")
	require.ErrorIs(t, err, common.ErrInvalidCredential)
	assert.Nil(t, cred)

	warns := log.entries["warn"]
	require.Len(t, warns, 4)

	wantOrder := []string{"RSA", "DSA", "ECDSA", "Ed25519"}
	for i, want := range wantOrder {
		assert.Equal(t, want, warns[i].attr("algorithm"))
	}
}

func TestParse_Ed25519KeyFallsThroughEarlierAlgorithms(t *testing.T) {
	log := newFakeLogger()
	p := NewKeyParser(log)

	cred, err := p.Parse(context.Background(), ed25519KeyPEM(t), "")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmEd25519, cred.Algorithm)

	// RSA, DSA and ECDSA attempts were made and logged before the match.
	assert.Len(t, log.entries["warn"], 3)
}

func TestParse_EncryptedKeyUsesPassphrase(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block, err := x509.EncryptPEMBlock(rand.Reader, "RSA PRIVATE KEY", //nolint:staticcheck // legacy PEM encryption is what SFTP users supply
		x509.MarshalPKCS1PrivateKey(key), []byte("hunter2"), x509.PEMCipherAES256)
	require.NoError(t, err)
	encrypted := string(pem.EncodeToMemory(block))

	p := NewKeyParser(newFakeLogger())

	cred, err := p.Parse(context.Background(), encrypted, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmRSA, cred.Algorithm)

	_, err = p.Parse(context.Background(), encrypted, "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredential)

	// No passphrase at all cannot decrypt either.
	_, err = p.Parse(context.Background(), encrypted, "")
	require.ErrorIs(t, err, common.ErrInvalidCredential)
}
