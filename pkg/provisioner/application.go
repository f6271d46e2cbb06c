/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/kshitizz36/Urumi-AI/pkg/stringutil"
)

const (
	appWorkloadName   = "store-app"
	appSecretName     = "store-app-admin"
	appPVCName        = "store-app-content"
	appImage          = "wordpress:6.5-apache"
	appContainerPort  = 8080
	appServicePort    = 80
	appAdminUser      = "admin"
	appAdminEmailTmpl = "admin@%s"

	SecretKeyAdminUser     = "admin-user"
	SecretKeyAdminPassword = "admin-password"
	SecretKeyAdminEmail    = "admin-email"
)

// deployApplication creates the storefront stack: an admin credentials
// secret, a content PVC, the Deployment wired to the database connection, a
// ClusterIP service, and the ingress rule for the tenant hostname. It then
// waits for the deployment to report ready.
func (o *Orchestrator) deployApplication(ctx context.Context, namespace, id, name string, conn *DBConnection) error {
	labels := tenantLabels(id, name, EngineWooCommerce)
	hostname := o.storeHostname(id)

	adminPassword, err := stringutil.NewPassword(passwordBits)
	if err != nil {
		return err
	}
	secretData := map[string]string{
		SecretKeyAdminUser:     appAdminUser,
		SecretKeyAdminPassword: adminPassword,
		SecretKeyAdminEmail:    fmt.Sprintf(appAdminEmailTmpl, hostname),
	}
	if err = o.gateway.EnsureSecret(ctx, namespace, appSecretName, secretData, labels); err != nil {
		return err
	}
	if err = o.gateway.EnsurePVC(ctx, namespace, applicationPVC(labels, o.appStorageSize)); err != nil {
		return err
	}
	if err = o.gateway.EnsureDeployment(ctx, namespace, applicationDeployment(labels, name, hostname, conn)); err != nil {
		return err
	}
	if err = o.gateway.EnsureService(ctx, namespace, applicationService(labels)); err != nil {
		return err
	}
	if err = o.gateway.EnsureIngress(ctx, namespace, o.applicationIngress(labels, hostname)); err != nil {
		return err
	}

	klog.InfoS("waiting for application readiness", "namespace", namespace, "timeout", o.appReadyTimeout)
	err = o.waitReady(ctx, o.appReadyTimeout, func(ctx context.Context) (bool, error) {
		ready, desired, readErr := o.gateway.DeploymentReadyReplicas(ctx, namespace, appWorkloadName)
		if readErr != nil {
			return false, readErr
		}
		return ready >= desired, nil
	})
	if err != nil {
		return fmt.Errorf("application did not become ready: %v", err)
	}
	return nil
}

func applicationPVC(labels map[string]string, storageSize string) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appPVCName,
			Labels: labels,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(storageSize),
				},
			},
		},
	}
}

func applicationDeployment(labels map[string]string, storeName, hostname string, conn *DBConnection) *appsv1.Deployment {
	podLabels := map[string]string{"app": appWorkloadName}
	for k, v := range labels {
		podLabels[k] = v
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appWorkloadName,
			Labels: labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"app": appWorkloadName},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: podLabels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "wordpress",
							Image: appImage,
							Env: []corev1.EnvVar{
								{Name: "WORDPRESS_DB_HOST", Value: fmt.Sprintf("%s:%d", conn.Host, conn.Port)},
								{Name: "WORDPRESS_DB_NAME", Value: conn.DBName},
								secretEnv("WORDPRESS_DB_USER", conn.SecretName, SecretKeyDBUser),
								secretEnv("WORDPRESS_DB_PASSWORD", conn.SecretName, SecretKeyDBPassword),
								secretEnv("WORDPRESS_ADMIN_USER", appSecretName, SecretKeyAdminUser),
								secretEnv("WORDPRESS_ADMIN_PASSWORD", appSecretName, SecretKeyAdminPassword),
								secretEnv("WORDPRESS_ADMIN_EMAIL", appSecretName, SecretKeyAdminEmail),
								{Name: "WORDPRESS_SITE_URL", Value: "http://" + hostname},
								{Name: "WORDPRESS_SITE_TITLE", Value: storeName},
								{Name: "APACHE_HTTP_PORT_NUMBER", Value: fmt.Sprintf("%d", appContainerPort)},
							},
							Ports: []corev1.ContainerPort{
								{Name: "http", ContainerPort: appContainerPort},
							},
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path: "/wp-login.php",
										Port: intstr.FromInt32(appContainerPort),
									},
								},
								InitialDelaySeconds: 20,
								PeriodSeconds:       10,
								TimeoutSeconds:      5,
							},
							LivenessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									TCPSocket: &corev1.TCPSocketAction{
										Port: intstr.FromInt32(appContainerPort),
									},
								},
								InitialDelaySeconds: 30,
								PeriodSeconds:       15,
								TimeoutSeconds:      5,
							},
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
								{Name: "content", MountPath: "/var/www/html"},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "content",
							VolumeSource: corev1.VolumeSource{
								PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
									ClaimName: appPVCName,
								},
							},
						},
					},
				},
			},
		},
	}
}

func applicationService(labels map[string]string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appWorkloadName,
			Labels: labels,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: map[string]string{"app": appWorkloadName},
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       appServicePort,
					TargetPort: intstr.FromInt32(appContainerPort),
				},
			},
		},
	}
}

func (o *Orchestrator) applicationIngress(labels map[string]string, hostname string) *networkingv1.Ingress {
	pathType := networkingv1.PathTypePrefix
	return &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:   appWorkloadName,
			Labels: labels,
			Annotations: map[string]string{
				"nginx.ingress.kubernetes.io/proxy-body-size":    "64m",
				"nginx.ingress.kubernetes.io/proxy-read-timeout": "120",
			},
		},
		Spec: networkingv1.IngressSpec{
			IngressClassName: ptr.To(o.ingressClass),
			Rules: []networkingv1.IngressRule{
				{
					Host: hostname,
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: &pathType,
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: appWorkloadName,
											Port: networkingv1.ServiceBackendPort{
												Number: appServicePort,
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
