package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_UnmarshalKeepsOrder(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`{"id":7,"email":"a@b.c","device_id":null,"active":true,"meta":{"x": 1}}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "7", r.ID)
	names := make([]string, 0, r.Len())
	for _, f := range r.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "email", "device_id", "active", "meta"}, names)
	assert.Equal(t, "a@b.c", r.String("email"))
	assert.Equal(t, "", r.String("device_id"))
	assert.Equal(t, "true", r.String("active"))
	assert.Equal(t, `{"x":1}`, r.String("meta"))
	assert.Equal(t, "", r.String("missing"))
}

func TestRecord_UnmarshalRejectsArray(t *testing.T) {
	var r Record
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
}

func TestRecord_MarshalRoundTripOrder(t *testing.T) {
	r := New(Field{"id", json.Number("3")}, Field{"zeta", "z"}, Field{"alpha", "a"})
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":3,"zeta":"z","alpha":"a"}`, string(b))
}

func TestFromMap_OrdersKnownFieldsFirst(t *testing.T) {
	r := FromMap(map[string]any{"b": "2", "id": "x", "a": "1", "c": "3"}, []string{"id", "c"})
	var names []string
	for _, f := range r.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "c", "a", "b"}, names)
	assert.Equal(t, "x", r.ID)
}

func TestDraft_MarshalInOrder(t *testing.T) {
	d := NewDraft()
	d.Set("email", "a@b.c")
	d.Set("password", "pw")
	d.Set("email", "x@y.z")

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"email":"x@y.z","password":"pw"}`, string(b))
	assert.Equal(t, []string{"email", "password"}, d.Names())
}
