package domain

import (
	"crypto/sha1" //nolint:gosec // sha1 integrity strings are still published by registries
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"regexp"
	"slices"
	"strings"
)

// Algorithm is a hash algorithm usable in an integrity string.
type Algorithm string

const (
	// AlgorithmSHA1 is sha1.
	AlgorithmSHA1 Algorithm = "sha1"
	// AlgorithmSHA256 is sha256.
	AlgorithmSHA256 Algorithm = "sha256"
	// AlgorithmSHA384 is sha384.
	AlgorithmSHA384 Algorithm = "sha384"
	// AlgorithmSHA512 is sha512.
	AlgorithmSHA512 Algorithm = "sha512"
)

var integrityPattern = regexp.MustCompile(`^(sha1|sha256|sha384|sha512)-[A-Za-z0-9+/]+=*$`)

// DefaultAlgorithms returns every supported algorithm.
func DefaultAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA384, AlgorithmSHA512}
}

// ParseAlgorithm validates a configured algorithm name.
func ParseAlgorithm(s string) (Algorithm, bool) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(DefaultAlgorithms(), a) {
		return a, true
	}
	return "", false
}

// New returns a fresh hash for the algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case AlgorithmSHA1:
		return sha1.New() //nolint:gosec // see import
	case AlgorithmSHA256:
		return sha256.New()
	case AlgorithmSHA384:
		return sha512.New384()
	case AlgorithmSHA512:
		return sha512.New()
	}
	return sha512.New()
}

// Integrity is a parsed "<algorithm>-<base64digest>" value.
type Integrity struct {
	Algorithm Algorithm
	Digest    string
}

// ParseIntegrity parses an integrity string. It returns false when the value
// does not match the algorithm-base64digest shape.
func ParseIntegrity(s string) (Integrity, bool) {
	m := integrityPattern.FindStringSubmatch(s)
	if m == nil {
		return Integrity{}, false
	}
	return Integrity{
		Algorithm: Algorithm(m[1]),
		Digest:    s[len(m[1])+1:],
	}, true
}

// ComputeIntegrity hashes data with the given algorithm.
func ComputeIntegrity(a Algorithm, data []byte) Integrity {
	h := a.New()
	_, _ = h.Write(data)
	return Integrity{
		Algorithm: a,
		Digest:    base64.StdEncoding.EncodeToString(h.Sum(nil)),
	}
}

// String renders the integrity value.
func (i Integrity) String() string {
	return string(i.Algorithm) + "-" + i.Digest
}

// Sum decodes the base64 digest. Unpadded digests are accepted.
func (i Integrity) Sum() ([]byte, error) {
	sum, err := base64.StdEncoding.DecodeString(i.Digest)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(i.Digest, "="))
	}
	return sum, nil
}

// Hex returns the digest as lowercase hex, the form used for content paths.
func (i Integrity) Hex() (string, error) {
	sum, err := i.Sum()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
