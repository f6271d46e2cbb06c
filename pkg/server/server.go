/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/kshitizz36/Urumi-AI/pkg/audit"
	"github.com/kshitizz36/Urumi-AI/pkg/backoff"
	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	"github.com/kshitizz36/Urumi-AI/pkg/gateway"
	"github.com/kshitizz36/Urumi-AI/pkg/handlers"
	"github.com/kshitizz36/Urumi-AI/pkg/k8sclient"
	"github.com/kshitizz36/Urumi-AI/pkg/provisioner"
)

const shutdownTimeout = 15 * time.Second

// Options holds the command line configuration.
type Options struct {
	ConfigPath string
}

// AddFlags registers the server flags on fs.
func (o *Options) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", "", "path to the yaml configuration file")
}

// Run assembles every component and serves until SIGINT or SIGTERM. It
// returns after in-flight pipelines have drained or the shutdown window
// expired.
func Run(opts *Options) error {
	if err := commonconfig.LoadConfig(opts.ConfigPath); err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	initLogs()

	dbClient := dbclient.NewClient()
	if dbClient == nil {
		return fmt.Errorf("failed to initialize database client")
	}
	defer dbClient.Close()

	clientSet, restConfig, err := k8sclient.NewClientSet(commonconfig.GetKubeconfigPath())
	if err != nil {
		return fmt.Errorf("failed to initialize cluster client: %v", err)
	}
	policy := backoff.Policy{
		MaxRetries:   uint64(commonconfig.GetRetryMaxRetries()),
		InitialDelay: commonconfig.GetRetryInitialDelay(),
		MaxDelay:     commonconfig.GetRetryMaxDelay(),
		Multiplier:   2,
		Jitter:       true,
	}
	gw := gateway.New(clientSet, restConfig, policy)
	recorder := audit.NewRecorder(dbClient)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	orchestrator := provisioner.New(ctx, dbClient, gw, recorder)
	if commonconfig.IsReaperEnable() {
		go provisioner.NewReaper(orchestrator).Start(ctx)
	}

	engine := handlers.InitHttpHandlers(orchestrator, gw, dbClient, recorder)
	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(commonconfig.GetServerPort()),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		klog.InfoS("http server listening", "addr", httpServer.Addr, "env", commonconfig.GetEnvironment())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err = <-serveErr:
		return fmt.Errorf("http server failed: %v", err)
	case <-ctx.Done():
	}

	klog.InfoS("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		klog.ErrorS(err, "http server shutdown failed")
	}

	// Give in-flight pipelines the rest of the window to notice the
	// cancelled context and checkpoint their failure state.
	done := make(chan struct{})
	go func() {
		orchestrator.Wait()
		close(done)
	}()
	select {
	case <-done:
		klog.InfoS("all pipelines drained")
	case <-shutdownCtx.Done():
		klog.Warningf("shutdown window expired with pipelines still running; the reaper will recover them")
	}
	return nil
}

// initLogs wires klog verbosity from configuration.
func initLogs() {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("v", strconv.Itoa(commonconfig.GetLogLevel()))
	_ = fs.Set("logtostderr", "true")
}
