package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lockguard/internal/core/domain"
)

func TestExtractRegistry(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   domain.RegistryURL
		wantOK bool
	}{
		{
			name:   "unscoped",
			input:  "https://registry.example.com/pkg/-/pkg-1.0.0.tgz",
			want:   "https://registry.example.com",
			wantOK: true,
		},
		{
			name:   "scoped",
			input:  "https://registry.example.com/@scope/pkg/-/pkg-1.0.0.tgz",
			want:   "https://registry.example.com",
			wantOK: true,
		},
		{
			name:   "path mounted scoped",
			input:  "https://host/api/npm/repo/@scope/pkg/-/pkg-1.0.0.tgz",
			want:   "https://host/api/npm/repo",
			wantOK: true,
		},
		{
			name:   "path mounted unscoped",
			input:  "https://host/api/npm/repo/pkg/-/pkg-1.0.0.tgz",
			want:   "https://host/api/npm/repo",
			wantOK: true,
		},
		{
			name:   "encoded scope",
			input:  "https://registry.example.com/@scope%2fpkg/-/pkg-1.0.0.tgz",
			want:   "https://registry.example.com",
			wantOK: true,
		},
		{
			name:   "port kept",
			input:  "http://localhost:4873/pkg/-/pkg-1.0.0.tgz",
			want:   "http://localhost:4873",
			wantOK: true,
		},
		{
			name:   "no tarball separator",
			input:  "https://codeload.github.com/user/repo/tar.gz/abc123",
			want:   "https://codeload.github.com",
			wantOK: true,
		},
		{
			name:   "mixed case host",
			input:  "https://Registry.NPMJS.org/pkg/-/pkg-1.0.0.tgz",
			want:   "https://registry.npmjs.org",
			wantOK: true,
		},
		{name: "relative", input: "pkg/-/pkg-1.0.0.tgz", wantOK: false},
		{name: "garbage", input: "://", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ExtractRegistry(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRegistry(t *testing.T) {
	assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), domain.NormalizeRegistry("https://registry.npmjs.org/"))
	assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), domain.NormalizeRegistry("https://registry.npmjs.org"))

	assert.Equal(t, domain.RegistryURL("https://registry.npmjs.org"), domain.NormalizeRegistry("HTTPS://Registry.NPMJS.org/"))
	assert.Equal(t, domain.RegistryURL("https://r.example/NPM"), domain.NormalizeRegistry("https://R.example/NPM/"))

	once := domain.NormalizeRegistry("https://r.example/npm/")
	assert.Equal(t, once, domain.NormalizeRegistry(string(once)))
}

func TestCanonicalMirrorURL(t *testing.T) {
	got, ok := domain.CanonicalMirrorURL("https://registry.yarnpkg.com/pkg/-/pkg-1.0.0.tgz", nil)
	assert.True(t, ok)
	assert.Equal(t, "https://registry.npmjs.org/pkg/-/pkg-1.0.0.tgz", got)

	got, ok = domain.CanonicalMirrorURL("https://mirror.corp/pkg/-/pkg-1.0.0.tgz", map[string]string{"mirror.corp": "registry.npmjs.org"})
	assert.True(t, ok)
	assert.Equal(t, "https://registry.npmjs.org/pkg/-/pkg-1.0.0.tgz", got)

	got, ok = domain.CanonicalMirrorURL("https://Registry.Yarnpkg.com/pkg/-/pkg-1.0.0.tgz", nil)
	assert.True(t, ok)
	assert.Equal(t, "https://registry.npmjs.org/pkg/-/pkg-1.0.0.tgz", got)

	_, ok = domain.CanonicalMirrorURL("https://registry.npmjs.org/pkg/-/pkg-1.0.0.tgz", nil)
	assert.False(t, ok)
}

func TestDefaultTarballURL(t *testing.T) {
	assert.Equal(t,
		"https://registry.npmjs.org/left-pad/-/left-pad-1.3.0.tgz",
		domain.DefaultTarballURL(domain.DefaultRegistry, "left-pad", "1.3.0"))
	assert.Equal(t,
		"https://registry.npmjs.org/@babel/core/-/core-7.0.0.tgz",
		domain.DefaultTarballURL("https://registry.npmjs.org", "@babel/core", "7.0.0"))
}
