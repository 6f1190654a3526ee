package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func TestEnv_Token(t *testing.T) {
	env := map[string]string{"BEARER_TOKEN": "  tok \n", "EMPTY": "   "}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	tok, err := NewEnvWithLookup("", lookup).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	tok, _ = NewEnvWithLookup("EMPTY", lookup).Token(context.Background())
	assert.Empty(t, tok)

	tok, _ = NewEnvWithLookup("UNSET", lookup).Token(context.Background())
	assert.Empty(t, tok)
}

func TestEnv_DefaultsToProcessEnv(t *testing.T) {
	t.Setenv("TB_TEST_TOKEN", "from-env")
	tok, err := NewEnv("TB_TEST_TOKEN").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
}

func TestStatic_Token(t *testing.T) {
	tok, err := Static("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func secret(data map[string][]byte) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "twitter-api", Namespace: "jobs"},
		Data:       data,
	}
}

func TestKubernetesSecret_Token(t *testing.T) {
	cs := fake.NewSimpleClientset(secret(map[string][]byte{"BEARER_TOKEN": []byte("k8s-token\n")}))
	p := NewKubernetesSecretWithClientset(cs, "jobs", "twitter-api", "", nil)

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "k8s-token", tok)
}

func TestKubernetesSecret_MissingSecretOrKey(t *testing.T) {
	empty := NewKubernetesSecretWithClientset(fake.NewSimpleClientset(), "jobs", "twitter-api", "", nil)
	tok, err := empty.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)

	noKey := NewKubernetesSecretWithClientset(
		fake.NewSimpleClientset(secret(map[string][]byte{"OTHER": []byte("x")})),
		"jobs", "twitter-api", "BEARER_TOKEN", nil)
	tok, err = noKey.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestKubernetesSecret_APIError(t *testing.T) {
	cs := fake.NewSimpleClientset()
	cs.PrependReactor("get", "secrets", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, assert.AnError
	})
	p := NewKubernetesSecretWithClientset(cs, "jobs", "twitter-api", "", nil)

	_, err := p.Token(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
