package synthesizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFencedJSON(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"latitude\": 24.6, \"longitude\": -81.8, \"year\": 2016, \"answer\": \"Warm surface water.\"}\n```\nHope that helps."

	out, ok := extract(raw)
	require.True(t, ok)

	assert.Equal(t, "Warm surface water.", out.Answer)
	require.NotNil(t, out.Latitude)
	assert.InDelta(t, 24.6, *out.Latitude, 1e-9)
	require.NotNil(t, out.Year)
	assert.InDelta(t, 2016, *out.Year, 1e-9)
}

func TestExtractFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"latitude\": null, \"longitude\": null, \"year\": null, \"answer\": \"Hi there!\"}\n```"

	out, ok := extract(raw)
	require.True(t, ok)

	assert.Equal(t, "Hi there!", out.Answer)
	assert.Nil(t, out.Latitude)
	assert.Nil(t, out.Longitude)
	assert.Nil(t, out.Year)
}

func TestExtractBareObjectInProse(t *testing.T) {
	raw := "Sure. {\"latitude\": null, \"longitude\": null, \"year\": 2017, \"answer\": \"One profile matched.\"} Let me know."

	out, ok := extract(raw)
	require.True(t, ok)
	assert.Equal(t, "One profile matched.", out.Answer)
}

func TestExtractHonorsBracesInsideStrings(t *testing.T) {
	raw := "{\"latitude\": null, \"longitude\": null, \"year\": null, \"answer\": \"Use {curly} notation.\"}"

	out, ok := extract(raw)
	require.True(t, ok)
	assert.Equal(t, "Use {curly} notation.", out.Answer)
}

func TestExtractNoJSON(t *testing.T) {
	_, ok := extract("The float recorded warm water near the surface.")
	assert.False(t, ok)
}

func TestExtractMalformedJSON(t *testing.T) {
	_, ok := extract("```json\n{\"answer\": \"broken\"\n```")
	assert.False(t, ok)
}

func TestFirstObject(t *testing.T) {
	obj, ok := firstObject("prefix {\"a\": {\"b\": 1}} suffix")
	require.True(t, ok)
	assert.Equal(t, "{\"a\": {\"b\": 1}}", obj)

	_, ok = firstObject("no object here")
	assert.False(t, ok)
}
