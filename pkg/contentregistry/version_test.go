package contentregistry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-registry/pkg/contentregistry"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		token     string
		want      contentregistry.Version
		expectErr bool
	}{
		{token: "v1", want: 1},
		{token: "v2", want: 2},
		{token: "v10", want: 10},
		{token: "", expectErr: true},
		{token: "v", expectErr: true},
		{token: "2", expectErr: true},
		{token: "v2.1", expectErr: true},
		{token: "latest", expectErr: true},
		{token: "V2", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			v, err := contentregistry.ParseVersion(tt.token)
			if tt.expectErr {
				assert.ErrorIs(t, err, contentregistry.ErrInvalidVersion)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, v)
				assert.Equal(t, tt.token, v.String())
			}
		})
	}
}

func TestVersionOrdering(t *testing.T) {
	// Numeric suffix comparison, not lexicographic.
	v2 := contentregistry.MustParseVersion("v2")
	v7 := contentregistry.MustParseVersion("v7")
	v10 := contentregistry.MustParseVersion("v10")

	assert.True(t, v2 < v7)
	assert.True(t, v7 < v10)
}

func TestNegotiate(t *testing.T) {
	latest := contentregistry.MustParseVersion("v2")

	t.Run("absent requested defaults to latest", func(t *testing.T) {
		spec, err := contentregistry.Negotiate("", latest)
		require.NoError(t, err)
		assert.Equal(t, contentregistry.VersionSpec{Request: latest, Latest: latest}, spec)
	})

	t.Run("requested below latest", func(t *testing.T) {
		spec, err := contentregistry.Negotiate("v1", latest)
		require.NoError(t, err)
		assert.Equal(t, "v1", spec.Request.String())
		assert.Equal(t, "v2", spec.Latest.String())
	})

	t.Run("requested equal to latest", func(t *testing.T) {
		spec, err := contentregistry.Negotiate("v2", latest)
		require.NoError(t, err)
		assert.Equal(t, contentregistry.VersionSpec{Request: latest, Latest: latest}, spec)
	})

	t.Run("requested above latest is a hard failure", func(t *testing.T) {
		_, err := contentregistry.Negotiate("v7", latest)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentregistry.ErrInvalidVersion)
		assert.Equal(t, "Invalid version. Latest version is [v2].", err.Error())
	})

	t.Run("malformed requested token", func(t *testing.T) {
		_, err := contentregistry.Negotiate("two", latest)
		assert.ErrorIs(t, err, contentregistry.ErrInvalidVersion)
	})
}
