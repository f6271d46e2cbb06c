/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/kshitizz36/Urumi-AI/pkg/stringutil"
)

const (
	dbWorkloadName = "store-db"
	dbSecretName   = "store-db-credentials"
	dbPort         = 3306
	dbImage        = "mysql:8.0"

	// Well-known secret keys consumed by both workloads.
	SecretKeyRootPassword = "root-password"
	SecretKeyDBUser       = "db-user"
	SecretKeyDBPassword   = "db-password"
	SecretKeyDBName       = "db-name"

	passwordBits = 96
)

// DBConnection describes how the application workload reaches the tenant
// database. Credentials stay in the cluster secret and are referenced by key.
type DBConnection struct {
	Host       string
	Port       int32
	DBName     string
	User       string
	SecretName string
}

// deployDatabase creates the tenant database stack: a credentials secret, a
// headless service, and a single-replica StatefulSet, then waits for the
// workload to report ready.
func (o *Orchestrator) deployDatabase(ctx context.Context, namespace, id, name string) (*DBConnection, error) {
	labels := tenantLabels(id, name, EngineWooCommerce)

	rootPassword, err := stringutil.NewPassword(passwordBits)
	if err != nil {
		return nil, err
	}
	userPassword, err := stringutil.NewPassword(passwordBits)
	if err != nil {
		return nil, err
	}
	secretData := map[string]string{
		SecretKeyRootPassword: rootPassword,
		SecretKeyDBUser:       "store",
		SecretKeyDBPassword:   userPassword,
		SecretKeyDBName:       "storedb",
	}
	if err = o.gateway.EnsureSecret(ctx, namespace, dbSecretName, secretData, labels); err != nil {
		return nil, err
	}
	if err = o.gateway.EnsureService(ctx, namespace, databaseService(labels)); err != nil {
		return nil, err
	}
	sts := databaseStatefulSet(labels, o.dbStorageSize)
	if err = o.gateway.EnsureStatefulSet(ctx, namespace, sts); err != nil {
		return nil, err
	}

	klog.InfoS("waiting for database readiness", "namespace", namespace, "timeout", o.dbReadyTimeout)
	err = o.waitReady(ctx, o.dbReadyTimeout, func(ctx context.Context) (bool, error) {
		ready, desired, readErr := o.gateway.StatefulSetReadyReplicas(ctx, namespace, dbWorkloadName)
		if readErr != nil {
			return false, readErr
		}
		return ready >= desired, nil
	})
	if err != nil {
		return nil, fmt.Errorf("database did not become ready: %v", err)
	}

	return &DBConnection{
		Host:       fmt.Sprintf("%s.%s.svc.cluster.local", dbWorkloadName, namespace),
		Port:       dbPort,
		DBName:     secretData[SecretKeyDBName],
		User:       secretData[SecretKeyDBUser],
		SecretName: dbSecretName,
	}, nil
}

// waitReady polls cond every pollInterval until it returns true or timeout
// elapses. Transient read errors end the wait; the gateway has already
// retried them.
func (o *Orchestrator) waitReady(ctx context.Context, timeout time.Duration, cond wait.ConditionWithContextFunc) error {
	return wait.PollUntilContextTimeout(ctx, o.pollInterval, timeout, true, cond)
}

func databaseService(labels map[string]string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:   dbWorkloadName,
			Labels: labels,
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  map[string]string{"app": dbWorkloadName},
			Ports: []corev1.ServicePort{
				{Name: "mysql", Port: dbPort},
			},
		},
	}
}

func databaseStatefulSet(labels map[string]string, storageSize string) *appsv1.StatefulSet {
	podLabels := map[string]string{"app": dbWorkloadName}
	for k, v := range labels {
		podLabels[k] = v
	}
	probe := &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			Exec: &corev1.ExecAction{
				Command: []string{"mysqladmin", "ping", "-h", "127.0.0.1"},
			},
		},
		InitialDelaySeconds: 15,
		PeriodSeconds:       10,
		TimeoutSeconds:      5,
	}
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:   dbWorkloadName,
			Labels: labels,
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: dbWorkloadName,
			Replicas:    ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"app": dbWorkloadName},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: podLabels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "mysql",
							Image: dbImage,
							Env: []corev1.EnvVar{
								secretEnv("MYSQL_ROOT_PASSWORD", dbSecretName, SecretKeyRootPassword),
								secretEnv("MYSQL_USER", dbSecretName, SecretKeyDBUser),
								secretEnv("MYSQL_PASSWORD", dbSecretName, SecretKeyDBPassword),
								secretEnv("MYSQL_DATABASE", dbSecretName, SecretKeyDBName),
							},
							Ports: []corev1.ContainerPort{
								{Name: "mysql", ContainerPort: dbPort},
							},
							LivenessProbe:  probe,
							ReadinessProbe: probe,
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("100m"),
									corev1.ResourceMemory: resource.MustParse("256Mi"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("500m"),
									corev1.ResourceMemory: resource.MustParse("512Mi"),
								},
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: "data", MountPath: "/var/lib/mysql"},
							},
						},
					},
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				{
					ObjectMeta: metav1.ObjectMeta{Name: "data"},
					Spec: corev1.PersistentVolumeClaimSpec{
						AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
						Resources: corev1.VolumeResourceRequirements{
							Requests: corev1.ResourceList{
								corev1.ResourceStorage: resource.MustParse(storageSize),
							},
						},
					},
				},
			},
		},
	}
}

func secretEnv(name, secretName, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: secretName},
				Key:                  key,
			},
		},
	}
}
