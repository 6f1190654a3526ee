package credential

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// KubernetesSecret reads the token from one key of a Secret.
type KubernetesSecret struct {
	clientset  kubernetes.Interface
	namespace  string
	secretName string
	key        string
	logger     *slog.Logger
}

var _ ingest.CredentialProvider = (*KubernetesSecret)(nil)

// NewKubernetesSecret uses the in-cluster service account.
func NewKubernetesSecret(namespace, secretName, key string, logger *slog.Logger) (*KubernetesSecret, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes config: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes clientset: %w", err)
	}
	return NewKubernetesSecretWithClientset(clientset, namespace, secretName, key, logger), nil
}

func NewKubernetesSecretWithClientset(clientset kubernetes.Interface, namespace, secretName, key string, logger *slog.Logger) *KubernetesSecret {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = DefaultEnvVar
	}
	return &KubernetesSecret{
		clientset:  clientset,
		namespace:  namespace,
		secretName: secretName,
		key:        key,
		logger:     logger,
	}
}

// Token returns "" when the Secret or the key does not exist; other API
// failures are returned as errors.
func (k *KubernetesSecret) Token(ctx context.Context) (string, error) {
	secret, err := k.clientset.CoreV1().Secrets(k.namespace).Get(ctx, k.secretName, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		k.logger.Warn("credential secret not found", "namespace", k.namespace, "secret", k.secretName)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get secret %s/%s: %w", k.namespace, k.secretName, err)
	}
	raw, ok := secret.Data[k.key]
	if !ok {
		k.logger.Warn("credential key missing from secret", "secret", k.secretName, "key", k.key)
		return "", nil
	}
	return strings.TrimSpace(string(raw)), nil
}
