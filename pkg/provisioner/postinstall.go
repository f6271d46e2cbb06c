/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

// sampleProduct is seeded into every new store. The SKU keeps reruns from
// duplicating products: WooCommerce rejects a second create with the same SKU.
type sampleProduct struct {
	name  string
	sku   string
	price string
}

var sampleProducts = []sampleProduct{
	{name: "Classic Tee", sku: "URUMI-TEE-001", price: "19.99"},
	{name: "Canvas Tote", sku: "URUMI-TOTE-001", price: "14.99"},
	{name: "Ceramic Mug", sku: "URUMI-MUG-001", price: "9.99"},
	{name: "Sticker Pack", sku: "URUMI-STICKER-001", price: "4.99"},
}

// runPostInstall configures WooCommerce inside the freshly provisioned pod:
// storefront pages, cash-on-delivery payments, sample products, store
// settings, and a rewrite-rule flush. The whole hook is best-effort; any
// individual failure is logged and the phase still succeeds. Every command
// is a plain argv vector through the exec subresource.
func (o *Orchestrator) runPostInstall(ctx context.Context, namespace, id, hostname string) {
	selector := fmt.Sprintf("app=%s", appWorkloadName)
	pods, err := o.gateway.ListPodsByLabel(ctx, namespace, selector)
	if err != nil || len(pods) == 0 {
		klog.Warningf("post-install skipped for store %s: no pod found (%v)", id, err)
		return
	}
	pod := pods[0]

	commands := [][]string{
		wp("plugin", "install", "woocommerce", "--activate"),
		wp("wc", "tool", "run", "install_pages", "--user="+appAdminUser),
		wp("option", "update", "woocommerce_cod_settings",
			`{"enabled":"yes","title":"Cash on delivery","instructions":"Pay with cash upon delivery."}`,
			"--format=json"),
	}
	for _, product := range sampleProducts {
		commands = append(commands, wp("wc", "product", "create",
			"--name="+product.name,
			"--sku="+product.sku,
			"--regular_price="+product.price,
			"--user="+appAdminUser,
		))
	}
	commands = append(commands,
		wp("option", "update", "blogname", hostname),
		wp("option", "update", "woocommerce_currency", "USD"),
		wp("option", "update", "woocommerce_default_country", "US:CA"),
		wp("rewrite", "flush", "--hard"),
	)

	for _, argv := range commands {
		if _, err := o.gateway.ExecInPod(ctx, namespace, pod, "wordpress", argv, o.podExecTimeout); err != nil {
			klog.Warningf("post-install command failed for store %s: %v", id, err)
		}
	}
	klog.InfoS("post-install finished", "storeId", id, "pod", pod)
}

func wp(args ...string) []string {
	argv := []string{"wp", "--allow-root", "--path=/var/www/html"}
	return append(argv, args...)
}
