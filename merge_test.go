package cloudsync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-cloud-sync/models"
)

func TestOverwrite_DiscardsRemote(t *testing.T) {
	remote := models.Document{"name": "Ava", "nickname": "av"}
	local := models.Document{"name": "Eve"}

	merged, err := Overwrite{}.Merge(remote, local)
	require.NoError(t, err)
	assert.Equal(t, models.Document{"name": "Eve"}, merged)
}

func TestFieldUnion(t *testing.T) {
	tests := []struct {
		name   string
		remote models.Document
		local  models.Document
		want   models.Document
	}{
		{
			name:   "DisjointFields → union",
			remote: models.Document{"nickname": "av"},
			local:  models.Document{"name": "Ava"},
			want:   models.Document{"name": "Ava", "nickname": "av"},
		},
		{
			name:   "SharedField → local wins",
			remote: models.Document{"name": "Ava"},
			local:  models.Document{"name": "Eve"},
			want:   models.Document{"name": "Eve"},
		},
		{
			name:   "EmptyLocal → remote preserved",
			remote: models.Document{"name": "Ava"},
			local:  models.Document{},
			want:   models.Document{"name": "Ava"},
		},
		{
			name:   "NilRemote → local unchanged",
			remote: nil,
			local:  models.Document{"name": "Ava"},
			want:   models.Document{"name": "Ava"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := FieldUnion{}.Merge(tt.remote, tt.local)
			require.NoError(t, err)
			assert.Equal(t, tt.want, merged)
		})
	}
}

func TestFieldUnion_DoesNotMutateInputs(t *testing.T) {
	remote := models.Document{"nickname": "av"}
	local := models.Document{"name": "Ava"}

	_, err := FieldUnion{}.Merge(remote, local)
	require.NoError(t, err)

	assert.Equal(t, models.Document{"nickname": "av"}, remote)
	assert.Equal(t, models.Document{"name": "Ava"}, local)
}

func TestMergeFunc_Adapts(t *testing.T) {
	boom := errors.New("cannot reconcile")
	policy := MergeFunc(func(remote, local models.Document) (models.Document, error) {
		return nil, boom
	})

	_, err := policy.Merge(models.Document{}, models.Document{})
	assert.ErrorIs(t, err, boom)
}
