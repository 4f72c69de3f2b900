package sqlite

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "hbnb.db")
	b, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b, path
}

func TestOpenCreatesDatabase(t *testing.T) {
	b, path := openTemp(t)
	assert.FileExists(t, path)
	assert.Equal(t, path, b.Path())

	records, err := b.Load()
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSaveLoadKeepsOrderAndValues(t *testing.T) {
	b, _ := openTemp(t)

	in := []types.Record{
		{Key: "User.b", Data: map[string]any{types.ClassField: "User", "id": "b", "email": "x@y.z"}},
		{Key: "Place.a", Data: map[string]any{types.ClassField: "Place", "id": "a", "number_rooms": 3, "latitude": 2.5, "amenity_ids": []any{"w"}}},
	}
	require.NoError(t, b.Save(in))

	out, err := b.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "User.b", out[0].Key)
	assert.Equal(t, "Place.a", out[1].Key)
	assert.Equal(t, "x@y.z", out[0].Data["email"])
	assert.Equal(t, json.Number("3"), out[1].Data["number_rooms"])
	assert.Equal(t, json.Number("2.5"), out[1].Data["latitude"])
	assert.Equal(t, []any{"w"}, out[1].Data["amenity_ids"])
}

func TestSaveReplacesPreviousRows(t *testing.T) {
	b, _ := openTemp(t)

	require.NoError(t, b.Save([]types.Record{
		{Key: "State.a", Data: map[string]any{types.ClassField: "State", "id": "a"}},
		{Key: "State.b", Data: map[string]any{types.ClassField: "State", "id": "b"}},
	}))
	require.NoError(t, b.Save([]types.Record{
		{Key: "State.b", Data: map[string]any{types.ClassField: "State", "id": "b", "name": "NV"}},
	}))

	out, err := b.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "NV", out[0].Data["name"])
}

func TestSaveFailureRollsBack(t *testing.T) {
	b, _ := openTemp(t)
	require.NoError(t, b.Save([]types.Record{
		{Key: "State.a", Data: map[string]any{types.ClassField: "State", "id": "a"}},
	}))

	err := b.Save([]types.Record{
		{Key: "State.b", Data: map[string]any{types.ClassField: "State", "id": "b"}},
		{Key: "State.b", Data: map[string]any{types.ClassField: "State", "id": "b"}},
	})
	require.Error(t, err, "duplicate key violates the primary key")

	out, err := b.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "State.a", out[0].Key)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hbnb.db")
	b, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, b.Save([]types.Record{
		{Key: "Amenity.w", Data: map[string]any{types.ClassField: "Amenity", "id": "w", "name": "Wifi"}},
	}))
	require.NoError(t, b.Close())

	b2, err := Open(path)
	require.NoError(t, err)
	defer b2.Close()

	out, err := b2.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Wifi", out[0].Data["name"])
}

func TestCloseIsIdempotent(t *testing.T) {
	b, err := Open(filepath.Join(t.TempDir(), "hbnb.db"))
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Save(nil), types.ErrBackendClosed)
	_, err = b.Load()
	assert.ErrorIs(t, err, types.ErrBackendClosed)
}
