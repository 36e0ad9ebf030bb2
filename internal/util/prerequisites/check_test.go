package prerequisites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_MissingRequiredTool(t *testing.T) {
	t.Parallel()
	tools := []Tool{
		{Name: "definitely-not-a-real-binary-kindling", Required: true, InstallURL: "https://example.com"},
	}

	results := Check(tools)

	require.Len(t, results.Missing, 1)
	assert.True(t, results.HasErrors())
	err := results.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-kindling")
	assert.Contains(t, err.Error(), "https://example.com")
}

func TestCheck_MissingOptionalToolIsNotAnError(t *testing.T) {
	t.Parallel()
	tools := []Tool{
		{Name: "definitely-not-a-real-binary-kindling", Required: false},
	}

	results := Check(tools)

	require.Len(t, results.Missing, 1)
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
}

func TestCheck_FoundTool(t *testing.T) {
	t.Parallel()
	// sh is present on any platform these tests run on
	results := Check([]Tool{{Name: "sh", Required: true}})

	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Found)
	assert.NotEmpty(t, results.Results[0].Path)
	assert.Empty(t, results.Missing)
	assert.NoError(t, results.Error())
}

func TestDefaultTools(t *testing.T) {
	t.Parallel()
	tools := DefaultTools()

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		assert.True(t, tool.Required)
		assert.NotEmpty(t, tool.InstallURL)
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "docker")
	assert.Contains(t, names, "kind")
}

func TestCheckAll_IncludesOptional(t *testing.T) {
	t.Parallel()
	results := CheckAll()
	assert.Len(t, results.Results, len(DefaultTools())+len(OptionalTools()))
}
