/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package main

import (
	"flag"
	"os"

	"k8s.io/klog/v2"

	"github.com/kshitizz36/Urumi-AI/pkg/server"
)

func main() {
	opts := &server.Options{}
	opts.AddFlags(flag.CommandLine)
	flag.Parse()

	if err := server.Run(opts); err != nil {
		klog.ErrorS(err, "server exited")
		os.Exit(1)
	}
	klog.InfoS("server exited cleanly")
}
