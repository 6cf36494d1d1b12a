package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockguard/internal/core/domain"
)

const (
	helloSHA512 = "sha512-m3HSJL1i83hdltRq0+o9czGb+8KJDKra4t/3JRlnPKcjI8PZm6XBHXx6zG4UuMXaDEZjR1wuXDre9G9zvN7AQw=="
	helloSHA1   = "sha1-qvTGHdzF6KLavt4PO0gs2a6pQ00="
)

func TestParseIntegrity(t *testing.T) {
	i, ok := domain.ParseIntegrity(helloSHA512)
	require.True(t, ok)
	assert.Equal(t, domain.AlgorithmSHA512, i.Algorithm)
	assert.Equal(t, helloSHA512, i.String())

	for _, bad := range []string{"", "sha512", "md5-abc=", "sha512-", "sha512-abc$", "SHA512-abc"} {
		_, ok := domain.ParseIntegrity(bad)
		assert.False(t, ok, bad)
	}
}

func TestComputeIntegrity(t *testing.T) {
	assert.Equal(t, helloSHA512, domain.ComputeIntegrity(domain.AlgorithmSHA512, []byte("hello")).String())
	assert.Equal(t, helloSHA1, domain.ComputeIntegrity(domain.AlgorithmSHA1, []byte("hello")).String())
}

func TestIntegrity_Hex(t *testing.T) {
	i, ok := domain.ParseIntegrity(helloSHA1)
	require.True(t, ok)

	hex, err := i.Hex()
	require.NoError(t, err)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", hex)

	unpadded := domain.Integrity{Algorithm: domain.AlgorithmSHA1, Digest: "qvTGHdzF6KLavt4PO0gs2a6pQ00"}
	hex, err = unpadded.Hex()
	require.NoError(t, err)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", hex)
}

func TestParseAlgorithm(t *testing.T) {
	a, ok := domain.ParseAlgorithm("SHA256")
	assert.True(t, ok)
	assert.Equal(t, domain.AlgorithmSHA256, a)

	_, ok = domain.ParseAlgorithm("md5")
	assert.False(t, ok)
}
