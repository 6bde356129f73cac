package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forumDna = `
manifest_version: "1"
name: forum
integrity:
  zomes:
    - name: posts_integrity
      path: ../../zomes/integrity/posts_integrity
    - name: profiles_integrity
coordinator:
  zomes:
    - name: posts
      dependencies:
        - name: posts_integrity
    - name: profiles
      dependencies:
        - name: profiles_integrity
`

func TestParseDnaManifest(t *testing.T) {
	m, err := ParseDnaManifest([]byte(forumDna))
	require.NoError(t, err)
	assert.Equal(t, "forum", m.Name)
	require.Len(t, m.Integrity.Zomes, 2)
	require.Len(t, m.Coordinator.Zomes, 2)

	profiles, ok := m.CoordinatorZome("profiles")
	require.True(t, ok)
	integrity, ok := m.IntegrityZomeFor(profiles)
	require.True(t, ok)
	assert.Equal(t, "profiles_integrity", integrity.Name)
	assert.Equal(t, "profiles_integrity", integrity.PackageName())

	_, ok = m.CoordinatorZome("missing")
	assert.False(t, ok)
}

func TestIntegrityZomeForFallsBackToFirst(t *testing.T) {
	m, err := ParseDnaManifest([]byte(forumDna))
	require.NoError(t, err)

	integrity, ok := m.IntegrityZomeFor(ZomeManifest{Name: "standalone"})
	require.True(t, ok)
	assert.Equal(t, "posts_integrity", integrity.Name)
}

func TestParseDnaManifestInvalid(t *testing.T) {
	_, err := ParseDnaManifest([]byte("integrity: [unterminated"))
	assert.Error(t, err)
}
