package batch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admintui/internal/record"
	"admintui/internal/schema"
)

func twoField() schema.Descriptor {
	return schema.Descriptor{
		ID:       "pairs",
		Endpoint: "/pairs",
		Fields:   []schema.Field{{Name: "f1"}, {Name: "f2"}},
		Grammar:  schema.LineGrammar{Fields: []string{"f1", "f2"}},
	}
}

func values(t *testing.T, drafts []record.Draft) []map[string]string {
	t.Helper()
	out := make([]map[string]string, len(drafts))
	for i, d := range drafts {
		m := map[string]string{}
		for _, n := range d.Names() {
			m[n], _ = d.Get(n)
		}
		out[i] = m
	}
	return out
}

func TestParse_TwoFieldGrammar(t *testing.T) {
	drafts, err := Parse("a,b\nc,d", twoField())
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{
		{"f1": "a", "f2": "b"},
		{"f1": "c", "f2": "d"},
	}, values(t, drafts))
}

func TestParse_ShortLineRejectsWholeBatch(t *testing.T) {
	drafts, err := Parse("a,b\nc", twoField())
	assert.Nil(t, drafts)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 2, perr.Expected)
	assert.Equal(t, 1, perr.Got)
}

func TestParse_LineNumbersCountBlankLines(t *testing.T) {
	_, err := Parse("a,b\n\n  \nc\n", twoField())
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Line)
}

func TestParse_TrimsAndKeepsExtraDelimitersInLastField(t *testing.T) {
	drafts, err := Parse("  a , b,c \r\n", twoField())
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"f1": "a", "f2": "b,c"}}, values(t, drafts))
}

func TestParse_FreeText(t *testing.T) {
	d, err := schema.Default().Describe(schema.Coordinates)
	require.NoError(t, err)

	drafts, err := Parse("37.77,-122.41\n\n  40.71,-74.00 \n", d)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{
		{"coordinate": "37.77,-122.41"},
		{"coordinate": "  40.71,-74.00 "},
	}, values(t, drafts))
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("\n \n", twoField())
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestTemplate(t *testing.T) {
	reg := schema.Default()
	acc, _ := reg.Describe(schema.Accounts)
	msg, _ := reg.Describe(schema.Messages)
	assert.Equal(t, "email,password,device_id", Template(acc))
	assert.Equal(t, "one message per line", Template(msg))
}

func TestParse_SkipsHeader(t *testing.T) {
	reg := schema.Default()
	acc, _ := reg.Describe(schema.Accounts)
	msg, _ := reg.Describe(schema.Messages)

	drafts, err := Parse(Header(acc)+"\na@x.com,pw,dev1\n", acc)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{
		{"email": "a@x.com", "password": "pw", "device_id": "dev1"},
	}, values(t, drafts))

	drafts, err = Parse(Header(msg)+"\n# hashtag message\n", msg)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"message": "# hashtag message"}}, values(t, drafts))

	_, err = Parse(Header(acc)+"\n", acc)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestParse_HeaderCountsTowardLineNumbers(t *testing.T) {
	reg := schema.Default()
	acc, _ := reg.Describe(schema.Accounts)
	_, err := Parse(Header(acc)+"\nonly-one-field", acc)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}
