package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admintui/internal/record"
)

func TestDefault_DescribesEverySection(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{Devices, Accounts, Coordinates, Messages, Profiles}, reg.IDs())

	for _, id := range reg.IDs() {
		d, err := reg.Describe(id)
		require.NoError(t, err, id)
		assert.NoError(t, d.Validate(), id)
		assert.Equal(t, "/"+d.PluralKey, d.Endpoint, "batch key names the collection")
	}
}

func TestDescribe_UnknownSection(t *testing.T) {
	_, err := Default().Describe("printers")
	var unknown *UnknownSectionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "printers", unknown.ID)
}

func TestDescribe_ReturnsCopy(t *testing.T) {
	reg := Default()
	d, err := reg.Describe(Devices)
	require.NoError(t, err)
	d.RequiredFields[0] = "tampered"

	again, err := reg.Describe(Devices)
	require.NoError(t, err)
	assert.Equal(t, []string{"device_id"}, again.RequiredFields)
}

func TestRegister_AddsSectionWithoutCodeChanges(t *testing.T) {
	reg := Default()
	err := reg.Register(Descriptor{
		ID:               "printers",
		Title:            "Printer",
		Endpoint:         "/printers",
		PluralKey:        "printers",
		Fields:           []Field{{Name: "name"}},
		RequiredFields:   []string{"name"},
		DisplayColumns:   []string{"id", "name"},
		SearchableFields: []string{"name"},
		Grammar:          LineGrammar{Fields: []string{"name"}},
	})
	require.NoError(t, err)

	d, err := reg.Describe("printers")
	require.NoError(t, err)
	assert.Equal(t, "/printers/batch", d.BatchEndpoint())

	assert.Error(t, reg.Register(d), "duplicate id")
}

func TestRegister_RejectsUndeclaredFields(t *testing.T) {
	err := NewRegistry().Register(Descriptor{
		ID:             "x",
		Endpoint:       "/x",
		Fields:         []Field{{Name: "a"}},
		RequiredFields: []string{"b"},
		Grammar:        LineGrammar{Fields: []string{"a"}},
	})
	assert.ErrorContains(t, err, `required field "b"`)
}

func TestMatches(t *testing.T) {
	d, err := Default().Describe(Accounts)
	require.NoError(t, err)

	r := record.New(
		record.Field{Name: "id", Value: 12},
		record.Field{Name: "email", Value: "Alice@Example.com"},
		record.Field{Name: "password", Value: "hunter2"},
	)

	assert.True(t, d.Matches(r, ""))
	assert.True(t, d.Matches(r, "alice"))
	assert.True(t, d.Matches(r, "EXAMPLE"))
	assert.True(t, d.Matches(r, "12"))
	assert.False(t, d.Matches(r, "hunter"), "password is not searchable")
	assert.False(t, d.Matches(r, "bob"))
}
