package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyedObject struct {
	key string
}

func (o keyedObject) Identity() string { return o.key }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "PlainKey → OK", key: "user-42", wantErr: false},
		{name: "UUID → OK", key: "0190cafe-2a15-7000-8000-0242ac120002", wantErr: false},
		{name: "Empty → InvalidIdentity", key: "", wantErr: true},
		{name: "ForwardSlash → InvalidIdentity", key: "users/42", wantErr: true},
		{name: "NullByte → InvalidIdentity", key: "user\x0042", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKeyOf(t *testing.T) {
	key, err := KeyOf(keyedObject{key: "user-42"})
	require.NoError(t, err)
	assert.Equal(t, "user-42", key)

	_, err = KeyOf(keyedObject{key: ""})
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

// Identity stability: any two calls on the same object yield the same key.
func TestKeyOf_Stable(t *testing.T) {
	obj := keyedObject{key: "user-42"}

	first, err := KeyOf(obj)
	require.NoError(t, err)
	second, err := KeyOf(obj)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUUIDGenerator_ProducesValidUniqueKeys(t *testing.T) {
	g := NewUUIDGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key := g.Generate()
		require.NoError(t, Validate(key))

		_, dup := seen[key]
		require.False(t, dup, "generated key %q twice", key)
		seen[key] = struct{}{}
	}
}

func TestULIDGenerator_ProducesSortedUniqueKeys(t *testing.T) {
	g := NewULIDGenerator()

	prev := ""
	for i := 0; i < 100; i++ {
		key := g.Generate()
		require.NoError(t, Validate(key))
		require.Len(t, key, 26)

		// Monotonic entropy keeps same-millisecond ULIDs ordered.
		assert.Greater(t, key, prev)
		prev = key
	}
}
