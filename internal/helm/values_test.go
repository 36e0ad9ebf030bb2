package helm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		maps     []Values
		expected Values
	}{
		{
			name:     "empty",
			maps:     nil,
			expected: Values{},
		},
		{
			name:     "single map",
			maps:     []Values{{"a": 1}},
			expected: Values{"a": 1},
		},
		{
			name:     "later map wins",
			maps:     []Values{{"a": 1, "b": 2}, {"b": 3}},
			expected: Values{"a": 1, "b": 3},
		},
		{
			name: "nested maps merge recursively",
			maps: []Values{
				{"grafana": map[string]any{"enabled": true, "replicas": 1}},
				{"grafana": map[string]any{"replicas": 2}},
			},
			expected: Values{"grafana": map[string]any{"enabled": true, "replicas": 2}},
		},
		{
			name: "scalar replaces nested map",
			maps: []Values{
				{"loki": map[string]any{"enabled": true}},
				{"loki": false},
			},
			expected: Values{"loki": false},
		},
		{
			name: "values-typed nested maps merge like plain maps",
			maps: []Values{
				{"grafana": Values{"enabled": true, "replicas": 1}},
				{"grafana": map[string]any{"replicas": 2}},
			},
			expected: Values{"grafana": map[string]any{"enabled": true, "replicas": 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Merge(tt.maps...))
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	base := Values{"grafana": map[string]any{"enabled": true}}
	override := Values{"grafana": map[string]any{"enabled": false}}

	_ = Merge(base, override)

	assert.Equal(t, true, base["grafana"].(map[string]any)["enabled"])
}

func TestMerge_ParsedYAMLBase(t *testing.T) {
	t.Parallel()

	base, err := FromYAML([]byte("grafana:\n  enabled: true\n  sidecar:\n    dashboards:\n      enabled: true\n"))
	require.NoError(t, err)

	merged := Merge(base, Values{"grafana": map[string]any{"replicas": 2}})

	grafana, ok := merged["grafana"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, grafana["enabled"], "parsed base keys must survive the overlay")
	assert.Equal(t, 2, grafana["replicas"])

	sidecar, ok := grafana["sidecar"].(map[string]any)
	require.True(t, ok)
	dashboards, ok := sidecar["dashboards"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, dashboards["enabled"])
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	values, err := FromYAML([]byte("grafana:\n  adminPassword: admin\nreplicas: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, values["replicas"])

	grafana, ok := values["grafana"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", grafana["adminPassword"])
}

func TestFromYAML_Empty(t *testing.T) {
	t.Parallel()

	values, err := FromYAML(nil)
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := FromYAML([]byte("{invalid: [yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML values")
}

func TestValuesRoundTrip(t *testing.T) {
	t.Parallel()

	original := Values{"loki": map[string]any{"deploymentMode": "SingleBinary"}}
	data, err := original.ToYAML()
	require.NoError(t, err)

	parsed, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestResolveValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valuesFile := filepath.Join(dir, "values.yaml")
	require.NoError(t, os.WriteFile(valuesFile, []byte("grafana:\n  enabled: true\n  replicas: 1\n"), 0o644))

	values, err := ResolveValues(map[string]any{
		"grafana": map[string]any{"replicas": 2},
	}, valuesFile)
	require.NoError(t, err)

	grafana, ok := values["grafana"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, grafana["enabled"], "values file provides the base")
	assert.Equal(t, 2, grafana["replicas"], "inline values win")
}

func TestResolveValues_NoFile(t *testing.T) {
	t.Parallel()

	values, err := ResolveValues(map[string]any{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, Values{"a": 1}, values)
}

func TestResolveValues_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ResolveValues(nil, "/nonexistent/values.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read values file")
}
