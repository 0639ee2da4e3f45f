package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-cloud-sync/models"
)

func TestResolver_RegisterAndResolve(t *testing.T) {
	r := NewResolver()

	require.NoError(t, r.Register("user", models.Destination{Collection: "users", Credentials: "token-1"}))

	dst, err := r.DestinationFor("user")
	require.NoError(t, err)
	assert.Equal(t, "users", dst.Collection)
	assert.Equal(t, "token-1", dst.Credentials)
}

func TestResolver_MissingConfiguration(t *testing.T) {
	r := NewResolver()

	_, err := r.DestinationFor("never-registered")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfiguration)
}

func TestResolver_Register_Invalid(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name       string
		typeTag    string
		collection string
	}{
		{name: "EmptyTypeTag", typeTag: "", collection: "users"},
		{name: "EmptyCollection", typeTag: "user", collection: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.typeTag, models.Destination{Collection: tt.collection})
			assert.ErrorIs(t, err, ErrInvalidDestination)
		})
	}
}

// Destinations are constant for the process lifetime: a second Register
// for the same tag is rejected, even with an identical destination.
func TestResolver_DuplicateRegistration(t *testing.T) {
	r := NewResolver()

	require.NoError(t, r.Register("user", models.Destination{Collection: "users"}))

	err := r.Register("user", models.Destination{Collection: "users"})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	err = r.Register("user", models.Destination{Collection: "elsewhere"})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestNewResolverFromConfig(t *testing.T) {
	cfg := &Config{Collections: map[string]string{
		"user":  "users",
		"order": "orders",
	}}

	r, err := NewResolverFromConfig(cfg, "shared-credentials")
	require.NoError(t, err)

	for typeTag, collection := range cfg.Collections {
		dst, err := r.DestinationFor(typeTag)
		require.NoError(t, err)
		assert.Equal(t, collection, dst.Collection)
		assert.Equal(t, "shared-credentials", dst.Credentials)
	}
}

func TestNewResolverFromConfig_InvalidCollection(t *testing.T) {
	cfg := &Config{Collections: map[string]string{"user": ""}}

	_, err := NewResolverFromConfig(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidDestination)
}
