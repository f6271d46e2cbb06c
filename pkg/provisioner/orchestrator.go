/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/klog/v2"

	"github.com/kshitizz36/Urumi-AI/pkg/audit"
	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	dbutils "github.com/kshitizz36/Urumi-AI/pkg/database/utils"
	"github.com/kshitizz36/Urumi-AI/pkg/deadline"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
	"github.com/kshitizz36/Urumi-AI/pkg/gateway"
	"github.com/kshitizz36/Urumi-AI/pkg/stringutil"
)

// Orchestrator owns every mutation of a store record. The admission surface
// only triggers it; the background worker it spawns performs all subsequent
// transitions through the repository.
type Orchestrator struct {
	dbClient *dbclient.Client
	gateway  *gateway.Gateway
	recorder *audit.Recorder

	storeDomain  string
	ingressClass string
	maxActive    int

	provisionTimeout  time.Duration
	dbReadyTimeout    time.Duration
	appReadyTimeout   time.Duration
	deleteWaitTimeout time.Duration
	podExecTimeout    time.Duration
	pollInterval      time.Duration

	dbStorageSize  string
	appStorageSize string

	// baseCtx bounds background workers; cancelled on process shutdown.
	baseCtx context.Context
	wg      sync.WaitGroup
}

// New builds an Orchestrator from configuration. ctx is the process-lifetime
// context; cancelling it preempts in-flight workers cooperatively.
func New(ctx context.Context, dbClient *dbclient.Client, gw *gateway.Gateway, recorder *audit.Recorder) *Orchestrator {
	return &Orchestrator{
		dbClient:          dbClient,
		gateway:           gw,
		recorder:          recorder,
		storeDomain:       commonconfig.GetStoreDomain(),
		ingressClass:      commonconfig.GetIngressClass(),
		maxActive:         commonconfig.GetMaxActiveStores(),
		provisionTimeout:  commonconfig.GetProvisionTimeout(),
		dbReadyTimeout:    commonconfig.GetDatabaseReadyTimeout(),
		appReadyTimeout:   commonconfig.GetApplicationReadyTimeout(),
		deleteWaitTimeout: commonconfig.GetDeleteWaitTimeout(),
		podExecTimeout:    commonconfig.GetPodExecTimeout(),
		pollInterval:      commonconfig.GetReadinessPollInterval(),
		dbStorageSize:     commonconfig.GetDatabaseStorageSize(),
		appStorageSize:    commonconfig.GetApplicationStorageSize(),
		baseCtx:           ctx,
	}
}

// CreateStore admits a request, reserves the record, and dispatches the
// background pipeline. It returns as soon as the record exists.
func (o *Orchestrator) CreateStore(ctx context.Context, name string, engine Engine, sourceIp string) (*dbclient.Store, error) {
	if engine != EngineWooCommerce {
		return nil, commonerrors.NewEngineNotSupported(string(engine))
	}
	id, err := stringutil.NewShortId()
	if err != nil {
		return nil, commonerrors.NewInternalError(err.Error())
	}

	now := time.Now().UTC()
	store := &dbclient.Store{
		Id:        id,
		Name:      name,
		Namespace: NamespaceFor(id),
		Engine:    string(engine),
		Status:    string(StatusProvisioning),
		Phase:     dbutils.NullString(string(PhaseNamespace)),
		CreatedAt: dbutils.NullTime(now),
		UpdatedAt: dbutils.NullTime(now),
	}
	if err = o.dbClient.InsertStoreReserving(ctx, store, o.maxActive); err != nil {
		return nil, err
	}
	o.recorder.RecordQuietly(ctx, audit.Entry{
		Action:    audit.ActionStoreCreateStarted,
		StoreId:   id,
		StoreName: name,
		Engine:    string(engine),
		SourceIp:  sourceIp,
	})

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.provision(id, name)
	}()
	return store, nil
}

// provision drives the four-phase pipeline under one shared deadline,
// checkpointing the phase after each success. Any failure lands the record
// in failed and triggers cascade cleanup.
func (o *Orchestrator) provision(id, name string) {
	namespace := NamespaceFor(id)
	dl := deadline.New(o.provisionTimeout)
	ctx := o.baseCtx
	start := time.Now()

	err := func() error {
		// Phase 1: namespace and tenancy isolation.
		if err := dl.Wrap(ctx, "namespace phase", func(ctx context.Context) error {
			return o.setupTenancy(ctx, namespace, id, name, EngineWooCommerce)
		}); err != nil {
			return err
		}
		if err := o.checkpoint(id, map[string]interface{}{
			"phase": string(PhaseDatabase),
		}); err != nil {
			return err
		}

		// Phase 2: tenant database.
		var conn *DBConnection
		if err := dl.Wrap(ctx, "database phase", func(ctx context.Context) error {
			var deployErr error
			conn, deployErr = o.deployDatabase(ctx, namespace, id, name)
			return deployErr
		}); err != nil {
			return err
		}
		if err := o.checkpoint(id, map[string]interface{}{
			"db_ready": true,
			"phase":    string(PhaseApplication),
		}); err != nil {
			return err
		}

		// Phase 3: storefront application.
		if err := dl.Wrap(ctx, "application phase", func(ctx context.Context) error {
			return o.deployApplication(ctx, namespace, id, name, conn)
		}); err != nil {
			return err
		}
		if err := o.checkpoint(id, map[string]interface{}{
			"app_ready": true,
			"phase":     string(PhaseValidation),
		}); err != nil {
			return err
		}

		// Phase 4: post-install hook, best-effort by contract.
		_ = dl.Wrap(ctx, "validation phase", func(ctx context.Context) error {
			o.runPostInstall(ctx, namespace, id, o.storeHostname(id))
			return nil
		})

		url := o.storeUrl(id)
		_, err := o.dbClient.UpdateStore(ctx, id, map[string]interface{}{
			"status":                   string(StatusReady),
			"phase":                    sql.NullString{},
			"url":                      url,
			"admin_url":                url + "/wp-admin",
			"ready_at":                 dbutils.NullTime(time.Now().UTC()),
			"provisioning_duration_ms": time.Since(start).Milliseconds(),
		})
		return err
	}()

	if err != nil {
		o.failProvisioning(id, name, err)
		return
	}
	o.recorder.RecordQuietly(o.baseCtx, audit.Entry{
		Action:    audit.ActionStoreCreateSucceeded,
		StoreId:   id,
		StoreName: name,
		Engine:    string(EngineWooCommerce),
		Duration:  time.Since(start),
	})
	klog.InfoS("store provisioned", "storeId", id, "duration", time.Since(start).Round(time.Millisecond))
}

// failProvisioning transitions the record to failed with the phase it died
// in, then reclaims the namespace. Cleanup errors are logged, never allowed
// to resurrect the record.
func (o *Orchestrator) failProvisioning(id, name string, cause error) {
	// Shutdown may have cancelled baseCtx; cleanup still deserves a bounded window.
	ctx, cancel := context.WithTimeout(context.Background(), o.deleteWaitTimeout)
	defer cancel()

	errorPhase := string(PhaseNamespace)
	if store, readErr := o.dbClient.SelectStoreById(ctx, id); readErr == nil && store.Phase.Valid {
		errorPhase = store.Phase.String
	}
	if _, err := o.dbClient.UpdateStore(ctx, id, map[string]interface{}{
		"status":        string(StatusFailed),
		"phase":         sql.NullString{},
		"error_message": cause.Error(),
		"error_phase":   errorPhase,
	}); err != nil {
		klog.ErrorS(err, "failed to mark store failed", "storeId", id)
	}
	o.recorder.RecordQuietly(ctx, audit.Entry{
		Action:    audit.ActionStoreCreateFailed,
		StoreId:   id,
		StoreName: name,
		Details:   fmt.Sprintf("phase=%s: %s", errorPhase, cause.Error()),
	})
	klog.ErrorS(cause, "store provisioning failed", "storeId", id, "phase", errorPhase)

	if err := o.gateway.DeleteNamespace(ctx, NamespaceFor(id)); err != nil {
		klog.Warningf("cleanup of namespace %s failed: %v", NamespaceFor(id), err)
	}
}

// DeleteStore tears down a store's entire resource graph and soft-deletes
// the record. Deleting an already-deleted store is a successful no-op.
func (o *Orchestrator) DeleteStore(ctx context.Context, id, sourceIp string) error {
	store, err := o.dbClient.SelectStoreById(ctx, id)
	if err != nil {
		return err
	}
	current := Status(store.Status)
	if current == StatusDeleted {
		return nil
	}
	if err = CheckTransition(current, StatusDeleting); err != nil {
		return err
	}
	if _, err = o.dbClient.UpdateStore(ctx, id, map[string]interface{}{
		"status": string(StatusDeleting),
		"phase":  sql.NullString{},
	}); err != nil {
		return err
	}

	start := time.Now()
	namespace := store.Namespace
	err = func() error {
		if delErr := o.gateway.DeleteNamespace(ctx, namespace); delErr != nil {
			return delErr
		}
		return o.waitReady(ctx, o.deleteWaitTimeout, func(ctx context.Context) (bool, error) {
			_, getErr := o.gateway.GetNamespace(ctx, namespace)
			if apierrors.IsNotFound(getErr) {
				return true, nil
			}
			return false, nil
		})
	}()
	if err != nil {
		// A failed record always carries both error fields; a teardown
		// failure has no pipeline phase, so the phase slot names the
		// operation that died instead.
		if _, updErr := o.dbClient.UpdateStore(ctx, id, map[string]interface{}{
			"status":        string(StatusFailed),
			"error_message": fmt.Sprintf("Deletion failed: %v", err),
			"error_phase":   string(StatusDeleting),
		}); updErr != nil {
			klog.ErrorS(updErr, "failed to mark deletion failure", "storeId", id)
		}
		o.recorder.RecordQuietly(ctx, audit.Entry{
			Action:    audit.ActionStoreDeleteFailed,
			StoreId:   id,
			StoreName: store.Name,
			SourceIp:  sourceIp,
			Details:   err.Error(),
		})
		return commonerrors.NewInternalError(fmt.Sprintf("Deletion failed: %v", err))
	}

	if err = o.dbClient.SoftDeleteStore(ctx, id); err != nil {
		return err
	}
	o.recorder.RecordQuietly(ctx, audit.Entry{
		Action:    audit.ActionStoreDeleteSucceeded,
		StoreId:   id,
		StoreName: store.Name,
		SourceIp:  sourceIp,
		Duration:  time.Since(start),
	})
	klog.InfoS("store deleted", "storeId", id, "namespace", namespace)
	return nil
}

// Wait blocks until all in-flight pipeline workers have returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) storeHostname(id string) string {
	return fmt.Sprintf("store-%s.%s", id, o.storeDomain)
}

func (o *Orchestrator) storeUrl(id string) string {
	return "http://" + o.storeHostname(id)
}

// checkpoint commits one durable phase boundary. A later phase never runs
// before its predecessor's checkpoint is committed.
func (o *Orchestrator) checkpoint(id string, fields map[string]interface{}) error {
	_, err := o.dbClient.UpdateStore(o.baseCtx, id, fields)
	return err
}
