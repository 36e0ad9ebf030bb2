package helm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKubeconfig = []byte(`apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
    insecure-skip-tls-verify: true
  name: kindling
contexts:
- context:
    cluster: kindling
    user: kindling-admin
  name: kind-kindling
current-context: kind-kindling
users:
- name: kindling-admin
  user:
    token: test-token
`)

func TestNewInMemoryRESTClientGetter(t *testing.T) {
	t.Parallel()

	getter := NewInMemoryRESTClientGetter(testKubeconfig, "monitoring")

	require.NotNil(t, getter)
	assert.Equal(t, testKubeconfig, getter.kubeconfig)
	assert.Equal(t, "monitoring", getter.namespace)
}

func TestInMemoryRESTClientGetter_ToRESTConfig(t *testing.T) {
	t.Parallel()

	getter := NewInMemoryRESTClientGetter(testKubeconfig, "default")

	restConfig, err := getter.ToRESTConfig()
	require.NoError(t, err)
	require.NotNil(t, restConfig)

	assert.Equal(t, "https://127.0.0.1:6443", restConfig.Host)
	assert.Equal(t, "test-token", restConfig.BearerToken)
}

func TestInMemoryRESTClientGetter_ToRESTConfig_Caching(t *testing.T) {
	t.Parallel()

	getter := NewInMemoryRESTClientGetter(testKubeconfig, "default")

	first, err := getter.ToRESTConfig()
	require.NoError(t, err)

	second, err := getter.ToRESTConfig()
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestInMemoryRESTClientGetter_ToRESTConfig_Invalid(t *testing.T) {
	t.Parallel()

	getter := NewInMemoryRESTClientGetter([]byte("not a kubeconfig"), "default")

	_, err := getter.ToRESTConfig()
	require.Error(t, err)
}

func TestInMemoryRESTClientGetter_ToRawKubeConfigLoader(t *testing.T) {
	t.Parallel()

	getter := NewInMemoryRESTClientGetter(testKubeconfig, "default")

	loader := getter.ToRawKubeConfigLoader()
	require.NotNil(t, loader)

	raw, err := loader.RawConfig()
	require.NoError(t, err)
	assert.Equal(t, "kind-kindling", raw.CurrentContext)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testKubeconfig, "monitoring")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "monitoring", client.namespace)
}
