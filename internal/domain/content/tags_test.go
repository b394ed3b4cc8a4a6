package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsValueQuotesElements(t *testing.T) {
	t.Parallel()

	value, err := Tags{"design", `say "hi"`, `back\slash`}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"design","say \"hi\"","back\\slash"}`, value)

	empty, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestTagsScanParsesLiterals(t *testing.T) {
	t.Parallel()

	cases := map[string]Tags{
		`{}`:                         {},
		`{design,build}`:             {"design", "build"},
		`{"fit out","say \"hi\""}`:   {"fit out", `say "hi"`},
		`{ spaced , "kept "}`:        {"spaced", "kept "},
	}

	for literal, expected := range cases {
		var tags Tags
		require.NoError(t, tags.Scan(literal), literal)
		assert.Equal(t, expected, tags, literal)
	}

	var fromBytes Tags
	require.NoError(t, fromBytes.Scan([]byte(`{a,b}`)))
	assert.Equal(t, Tags{"a", "b"}, fromBytes)

	var fromNil Tags
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}

func TestTagsScanRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	var tags Tags
	assert.Error(t, tags.Scan(`design,build`))
	assert.Error(t, tags.Scan(`{"unterminated}`))
	assert.Error(t, tags.Scan(42))
}

func TestTagsRoundTripThroughLiteral(t *testing.T) {
	t.Parallel()

	original := Tags{"news", "a,b", ""}
	value, err := original.Value()
	require.NoError(t, err)

	var decoded Tags
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Tags{"design", "build"}, ParseTags(" design, ,build ,"))
	assert.Equal(t, "design, build", Tags{"design", "build"}.String())
}
