/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package gateway

import (
	"bytes"
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"

	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

// ExecInPod runs argv inside the pod through the exec subresource and returns
// stdout. The command is a proper argv vector; no shell is ever involved, so
// arguments cannot be reinterpreted. The call is bounded by timeout.
func (g *Gateway) ExecInPod(ctx context.Context, namespace, pod, container string, argv []string, timeout time.Duration) (string, error) {
	if g.restConfig == nil {
		return "", commonerrors.NewInternalError("pod exec requires a rest config")
	}
	if len(argv) == 0 {
		return "", commonerrors.NewBadRequest("empty command")
	}

	req := g.clientSet.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   argv,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(g.restConfig, "POST", req.URL())
	if err != nil {
		return "", fmt.Errorf("failed to create executor: %v", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(execCtx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return stdout.String(), fmt.Errorf("exec %s failed: %v, stderr: %s", argv[0], err, stderr.String())
	}
	return stdout.String(), nil
}
