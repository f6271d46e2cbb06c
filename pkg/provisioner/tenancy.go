/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/klog/v2"
)

const (
	ManagedByLabel    = "managed-by"
	ManagedByValue    = "urumi-platform"
	StoreIdLabel      = "store-id"
	StoreNameLabel    = "store-name"
	EngineLabel       = "engine"
	CreatedAnnotation = "urumi.ai/created-at"

	quotaName         = "store-quota"
	limitRangeName    = "store-limits"
	networkPolicyName = "store-isolation"

	ingressNamespaceLabel = "kubernetes.io/metadata.name"
	ingressNamespaceValue = "ingress-nginx"
)

// tenantLabels are stamped on the namespace and every tenant object.
func tenantLabels(id, name string, engine Engine) map[string]string {
	return map[string]string{
		ManagedByLabel: ManagedByValue,
		StoreIdLabel:   id,
		StoreNameLabel: name,
		EngineLabel:    string(engine),
	}
}

// setupTenancy brings the namespace to a state safe for a tenant workload:
// the namespace itself, a hard resource quota, container limit defaults, and
// a deny-by-default network policy. Each step is individually idempotent.
func (o *Orchestrator) setupTenancy(ctx context.Context, namespace, id, name string, engine Engine) error {
	labels := tenantLabels(id, name, engine)
	annotations := map[string]string{
		CreatedAnnotation: time.Now().UTC().Format(time.RFC3339),
	}
	if err := o.gateway.EnsureNamespace(ctx, namespace, labels, annotations); err != nil {
		return err
	}
	if err := o.gateway.EnsureResourceQuota(ctx, namespace, quotaName, storeQuota()); err != nil {
		return err
	}
	if err := o.gateway.EnsureLimitRange(ctx, namespace, limitRangeName, storeLimits()); err != nil {
		return err
	}
	if err := o.gateway.EnsureNetworkPolicy(ctx, namespace, storeNetworkPolicy(namespace)); err != nil {
		return err
	}
	klog.InfoS("tenancy ready", "namespace", namespace)
	return nil
}

func storeQuota() corev1.ResourceList {
	return corev1.ResourceList{
		corev1.ResourceRequestsCPU:            resource.MustParse("500m"),
		corev1.ResourceLimitsCPU:              resource.MustParse("2"),
		corev1.ResourceRequestsMemory:         resource.MustParse("512Mi"),
		corev1.ResourceLimitsMemory:           resource.MustParse("2Gi"),
		corev1.ResourceRequestsStorage:        resource.MustParse("5Gi"),
		corev1.ResourcePods:                   resource.MustParse("10"),
		corev1.ResourceServices:               resource.MustParse("5"),
		corev1.ResourceSecrets:                resource.MustParse("10"),
		corev1.ResourceConfigMaps:             resource.MustParse("10"),
		corev1.ResourcePersistentVolumeClaims: resource.MustParse("3"),
	}
}

func storeLimits() []corev1.LimitRangeItem {
	return []corev1.LimitRangeItem{
		{
			Type: corev1.LimitTypeContainer,
			Default: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("500m"),
				corev1.ResourceMemory: resource.MustParse("512Mi"),
			},
			DefaultRequest: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("100m"),
				corev1.ResourceMemory: resource.MustParse("128Mi"),
			},
			Min: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("50m"),
				corev1.ResourceMemory: resource.MustParse("64Mi"),
			},
			Max: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("1"),
				corev1.ResourceMemory: resource.MustParse("1Gi"),
			},
		},
	}
}

// storeNetworkPolicy selects all pods in the namespace and denies everything
// not explicitly allowed: ingress from the ingress controller namespace and
// from within the namespace; egress to DNS, within the namespace, and to
// TCP 80/443 anywhere for plugin and package fetches.
func storeNetworkPolicy(namespace string) *networkingv1.NetworkPolicy {
	tcp := corev1.ProtocolTCP
	udp := corev1.ProtocolUDP
	dns := intstr.FromInt32(53)
	httpPort := intstr.FromInt32(80)
	httpsPort := intstr.FromInt32(443)

	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      networkPolicyName,
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{
				networkingv1.PolicyTypeIngress,
				networkingv1.PolicyTypeEgress,
			},
			Ingress: []networkingv1.NetworkPolicyIngressRule{
				{
					From: []networkingv1.NetworkPolicyPeer{
						{
							NamespaceSelector: &metav1.LabelSelector{
								MatchLabels: map[string]string{
									ingressNamespaceLabel: ingressNamespaceValue,
								},
							},
						},
						{
							PodSelector: &metav1.LabelSelector{},
						},
					},
				},
			},
			Egress: []networkingv1.NetworkPolicyEgressRule{
				{
					Ports: []networkingv1.NetworkPolicyPort{
						{Protocol: &udp, Port: &dns},
						{Protocol: &tcp, Port: &dns},
					},
				},
				{
					To: []networkingv1.NetworkPolicyPeer{
						{PodSelector: &metav1.LabelSelector{}},
					},
				},
				{
					Ports: []networkingv1.NetworkPolicyPort{
						{Protocol: &tcp, Port: &httpPort},
						{Protocol: &tcp, Port: &httpsPort},
					},
				},
			},
		},
	}
}
