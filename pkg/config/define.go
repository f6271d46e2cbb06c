/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix         = "server."
	serverPort           = serverPrefix + "port"
	serverEnv            = serverPrefix + "env"
	serverTrustedProxies = serverPrefix + "trusted_proxies"

	// log
	logPrefix = "log."
	logLevel  = logPrefix + "level"

	// db
	dbPrefix               = "db."
	dbUrl                  = dbPrefix + "url"
	dbMaxOpenConns         = dbPrefix + "max_open_conns"
	dbMaxIdleConns         = dbPrefix + "max_idle_conns"
	dbMaxLifetime          = dbPrefix + "max_life_time_second"
	dbMaxIdleTimeSecond    = dbPrefix + "max_idle_time_second"
	dbRequestTimeoutSecond = dbPrefix + "request_timeout_second"

	// k8s
	k8sPrefix     = "k8s."
	k8sKubeconfig = k8sPrefix + "kubeconfig"

	// store
	storePrefix       = "store."
	storeDomain       = storePrefix + "domain"
	storeIngressClass = storePrefix + "ingress_class"
	storeMaxActive    = storePrefix + "max_active"

	// storage
	storagePrefix          = "storage."
	storageDatabaseSize    = storagePrefix + "database_size"
	storageApplicationSize = storagePrefix + "application_size"

	// timeouts
	timeoutPrefix            = "timeouts."
	timeoutProvisionSecond   = timeoutPrefix + "provision_second"
	timeoutDBReadySecond     = timeoutPrefix + "database_ready_second"
	timeoutAppReadySecond    = timeoutPrefix + "application_ready_second"
	timeoutDeleteWaitSecond  = timeoutPrefix + "delete_wait_second"
	timeoutPodExecSecond     = timeoutPrefix + "pod_exec_second"
	timeoutReadinessPollMsec = timeoutPrefix + "readiness_poll_msec"

	// retry
	retryPrefix         = "retry."
	retryMaxRetries     = retryPrefix + "max_retries"
	retryInitialDelayMs = retryPrefix + "initial_delay_msec"
	retryMaxDelayMs     = retryPrefix + "max_delay_msec"

	// reaper
	reaperPrefix         = "reaper."
	reaperEnable         = reaperPrefix + "enable"
	reaperIntervalSecond = reaperPrefix + "interval_second"

	// ratelimit
	ratelimitPrefix             = "ratelimit."
	ratelimitCreatePerWindow    = ratelimitPrefix + "create_per_window"
	ratelimitDeletePerWindow    = ratelimitPrefix + "delete_per_window"
	ratelimitWindowSecond       = ratelimitPrefix + "window_second"
	ratelimitGlobalWrites       = ratelimitPrefix + "global_writes_per_window"
	ratelimitGlobalWindowSecond = ratelimitPrefix + "global_window_second"
)
