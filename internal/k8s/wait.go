package k8s

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

// GetPods returns pods matching a label selector in a namespace. An empty
// selector returns all pods.
func (c *Client) GetPods(ctx context.Context, namespace, labelSelector string) ([]corev1.Pod, error) {
	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %s: %w", namespace, err)
	}
	return pods.Items, nil
}

// DeploymentReady reports whether a deployment has all desired replicas
// available. A missing deployment is reported as not ready, not an error.
func (c *Client) DeploymentReady(ctx context.Context, namespace, name string) (bool, error) {
	deploy, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return false, nil
	}
	desired := int32(1)
	if deploy.Spec.Replicas != nil {
		desired = *deploy.Spec.Replicas
	}
	return deploy.Status.AvailableReplicas >= desired, nil
}

// WaitForDeployment waits for a deployment to become ready.
func (c *Client) WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, 5*time.Second, timeout, true,
		func(ctx context.Context) (bool, error) {
			return c.DeploymentReady(ctx, namespace, name)
		})
	if err != nil {
		return fmt.Errorf("deployment %s/%s not ready: %w", namespace, name, err)
	}
	return nil
}

// PodsReady reports how many pods matching a label selector are running
// with a Ready condition, out of the total matched.
func (c *Client) PodsReady(ctx context.Context, namespace, labelSelector string) (ready, total int, err error) {
	pods, err := c.GetPods(ctx, namespace, labelSelector)
	if err != nil {
		return 0, 0, err
	}
	for i := range pods {
		if isPodReady(&pods[i]) {
			ready++
		}
	}
	return ready, len(pods), nil
}

// isPodReady checks if a pod is running with a Ready condition.
func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady && condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
