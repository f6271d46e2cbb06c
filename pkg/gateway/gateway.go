/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package gateway

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/klog/v2"

	"github.com/kshitizz36/Urumi-AI/pkg/backoff"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

// Gateway is the thin facade around the cluster API. Every mutation is
// retry-wrapped and every create treats "already exists" as success, so the
// whole provisioning pipeline is safe to rerun from the beginning.
type Gateway struct {
	clientSet  kubernetes.Interface
	restConfig *rest.Config
	policy     backoff.Policy
}

// New creates a Gateway over the given clientset. restConfig may be nil when
// pod-exec is not needed (tests use the fake clientset).
func New(clientSet kubernetes.Interface, restConfig *rest.Config, policy backoff.Policy) *Gateway {
	return &Gateway{
		clientSet:  clientSet,
		restConfig: restConfig,
		policy:     policy,
	}
}

// retry runs op under the gateway retry policy and maps exhausted transient
// failures to a gateway error. Permanent cluster errors pass through as-is.
func (g *Gateway) retry(ctx context.Context, op func() error) error {
	err := backoff.Retry(ctx, g.policy, IsRetryableClusterError, op)
	if err == nil {
		return nil
	}
	if IsRetryableClusterError(err) {
		return commonerrors.NewGatewayError(err.Error())
	}
	return err
}

// ensure swallows the already-exists signal from a create without reading
// back or mutating the existing object.
func ensure(err error) error {
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// EnsureNamespace creates the namespace if absent; a conflict is success.
func (g *Gateway) EnsureNamespace(ctx context.Context, name string, labels, annotations map[string]string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Labels:      labels,
			Annotations: annotations,
		},
	}
	return g.retry(ctx, func() error {
		_, err := g.clientSet.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureResourceQuota applies a hard quota to the namespace, create-if-absent.
func (g *Gateway) EnsureResourceQuota(ctx context.Context, namespace, name string, hard corev1.ResourceList) error {
	quota := &corev1.ResourceQuota{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       corev1.ResourceQuotaSpec{Hard: hard},
	}
	return g.retry(ctx, func() error {
		_, err := g.clientSet.CoreV1().ResourceQuotas(namespace).Create(ctx, quota, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureLimitRange applies container defaults/min/max, create-if-absent.
func (g *Gateway) EnsureLimitRange(ctx context.Context, namespace, name string, items []corev1.LimitRangeItem) error {
	limitRange := &corev1.LimitRange{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec:       corev1.LimitRangeSpec{Limits: items},
	}
	return g.retry(ctx, func() error {
		_, err := g.clientSet.CoreV1().LimitRanges(namespace).Create(ctx, limitRange, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureNetworkPolicy installs the tenant isolation policy, create-if-absent.
func (g *Gateway) EnsureNetworkPolicy(ctx context.Context, namespace string, policy *networkingv1.NetworkPolicy) error {
	return g.retry(ctx, func() error {
		_, err := g.clientSet.NetworkingV1().NetworkPolicies(namespace).Create(ctx, policy, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureSecret stores string data under the given name, create-if-absent.
func (g *Gateway) EnsureSecret(ctx context.Context, namespace, name string, stringData map[string]string, labels map[string]string) error {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace, Labels: labels},
		Type:       corev1.SecretTypeOpaque,
		StringData: stringData,
	}
	return g.retry(ctx, func() error {
		_, err := g.clientSet.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureStatefulSet submits the workload, create-if-absent.
func (g *Gateway) EnsureStatefulSet(ctx context.Context, namespace string, sts *appsv1.StatefulSet) error {
	return g.retry(ctx, func() error {
		_, err := g.clientSet.AppsV1().StatefulSets(namespace).Create(ctx, sts, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureDeployment submits the workload, create-if-absent.
func (g *Gateway) EnsureDeployment(ctx context.Context, namespace string, deploy *appsv1.Deployment) error {
	return g.retry(ctx, func() error {
		_, err := g.clientSet.AppsV1().Deployments(namespace).Create(ctx, deploy, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureService submits the service, create-if-absent.
func (g *Gateway) EnsureService(ctx context.Context, namespace string, svc *corev1.Service) error {
	return g.retry(ctx, func() error {
		_, err := g.clientSet.CoreV1().Services(namespace).Create(ctx, svc, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsurePVC submits the claim, create-if-absent.
func (g *Gateway) EnsurePVC(ctx context.Context, namespace string, pvc *corev1.PersistentVolumeClaim) error {
	return g.retry(ctx, func() error {
		_, err := g.clientSet.CoreV1().PersistentVolumeClaims(namespace).Create(ctx, pvc, metav1.CreateOptions{})
		return ensure(err)
	})
}

// EnsureIngress submits the ingress rule, create-if-absent.
func (g *Gateway) EnsureIngress(ctx context.Context, namespace string, ingress *networkingv1.Ingress) error {
	return g.retry(ctx, func() error {
		_, err := g.clientSet.NetworkingV1().Ingresses(namespace).Create(ctx, ingress, metav1.CreateOptions{})
		return ensure(err)
	})
}

// DeploymentReadyReplicas returns ready and desired replica counts.
func (g *Gateway) DeploymentReadyReplicas(ctx context.Context, namespace, name string) (ready, desired int32, err error) {
	err = g.retry(ctx, func() error {
		deploy, getErr := g.clientSet.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if getErr != nil {
			return getErr
		}
		ready = deploy.Status.ReadyReplicas
		desired = 1
		if deploy.Spec.Replicas != nil {
			desired = *deploy.Spec.Replicas
		}
		return nil
	})
	return ready, desired, err
}

// StatefulSetReadyReplicas returns ready and desired replica counts.
func (g *Gateway) StatefulSetReadyReplicas(ctx context.Context, namespace, name string) (ready, desired int32, err error) {
	err = g.retry(ctx, func() error {
		sts, getErr := g.clientSet.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if getErr != nil {
			return getErr
		}
		ready = sts.Status.ReadyReplicas
		desired = 1
		if sts.Spec.Replicas != nil {
			desired = *sts.Spec.Replicas
		}
		return nil
	})
	return ready, desired, err
}

// DeleteNamespace removes the namespace with foreground propagation, so all
// children are reclaimed before the namespace object disappears. A missing
// namespace is success.
func (g *Gateway) DeleteNamespace(ctx context.Context, name string) error {
	propagation := metav1.DeletePropagationForeground
	return g.retry(ctx, func() error {
		err := g.clientSet.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{
			PropagationPolicy: &propagation,
		})
		if apierrors.IsNotFound(err) {
			return nil
		}
		return err
	})
}

// GetNamespace fetches the namespace object; callers use the k8s not-found
// error to detect "gone".
func (g *Gateway) GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	var ns *corev1.Namespace
	err := g.retry(ctx, func() error {
		got, getErr := g.clientSet.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
		if getErr != nil {
			return getErr
		}
		ns = got
		return nil
	})
	return ns, err
}

// ListPodsByLabel returns the names of pods matching the label selector.
func (g *Gateway) ListPodsByLabel(ctx context.Context, namespace, selector string) ([]string, error) {
	var names []string
	err := g.retry(ctx, func() error {
		pods, listErr := g.clientSet.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
			LabelSelector: selector,
		})
		if listErr != nil {
			return listErr
		}
		names = names[:0]
		for _, pod := range pods.Items {
			names = append(names, pod.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// HealthPing performs one lightweight read against the cluster API.
func (g *Gateway) HealthPing(ctx context.Context) error {
	_, err := g.clientSet.Discovery().ServerVersion()
	if err != nil {
		klog.V(4).InfoS("cluster health ping failed", "err", err)
		return fmt.Errorf("cluster health ping failed: %v", err)
	}
	return nil
}
