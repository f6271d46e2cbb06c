/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package k8sclient

import (
	"os"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
)

const (
	DefaultQPS   = 50.0
	DefaultBurst = 100
)

// NewClientSet builds a Kubernetes clientset, auto-detecting the environment:
// in-cluster when the service account env vars are present, otherwise the
// given kubeconfig path, otherwise the default loading rules.
func NewClientSet(kubeconfigPath string) (kubernetes.Interface, *rest.Config, error) {
	restConfig, err := GetRestConfig(kubeconfigPath)
	if err != nil {
		return nil, nil, err
	}
	cli, err := NewClientSetWithRestConfig(restConfig)
	return cli, restConfig, err
}

// NewClientSetWithRestConfig creates and returns a new ClientSetWithRestConfig instance.
func NewClientSetWithRestConfig(cfg *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(cfg)
}

// GetRestConfig resolves the REST configuration for cluster access.
func GetRestConfig(kubeconfigPath string) (*rest.Config, error) {
	if isInCluster() {
		restCfg, err := rest.InClusterConfig()
		if err != nil {
			return nil, err
		}
		return tuned(restCfg), nil
	}
	if kubeconfigPath != "" {
		klog.Infof("using kubeconfig %s", kubeconfigPath)
		restCfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
		if err != nil {
			return nil, err
		}
		return tuned(restCfg), nil
	}
	restCfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	return tuned(restCfg), nil
}

func isInCluster() bool {
	return os.Getenv("KUBERNETES_SERVICE_HOST") != "" && os.Getenv("KUBERNETES_SERVICE_PORT") != ""
}

func tuned(cfg *rest.Config) *rest.Config {
	cfg.QPS = DefaultQPS
	cfg.Burst = DefaultBurst
	return cfg
}
