/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
	"github.com/kshitizz36/Urumi-AI/pkg/database/utils"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

var (
	once     sync.Once
	instance *Client
)

// Client manages the connection pool to the store database. It is the single
// source of truth for store records and the durable audit log.
type Client struct {
	db              *sqlx.DB
	*utils.DBConfig // Embedded database configuration
}

// NewClient creates a singleton instance of the database Client.
// It initializes the database configuration from common configuration,
// establishes the pool, and bootstraps the schema if absent.
// The initialization happens only once even if called multiple times.
func NewClient() *Client {
	once.Do(func() {
		cfg := &utils.DBConfig{
			Url:            commonconfig.GetDBUrl(),
			MaxOpenConns:   commonconfig.GetDBMaxOpenConns(),
			MaxIdleConns:   commonconfig.GetDBMaxIdleConns(),
			MaxLifetime:    commonconfig.GetDBMaxLifetime(),
			MaxIdleTime:    commonconfig.GetDBMaxIdleTime(),
			RequestTimeout: commonconfig.GetDBRequestTimeout(),
		}
		if cfg.Url == "" {
			klog.Errorf("db url not configured")
			return
		}
		db, err := utils.Connect(cfg, utils.PgDriver)
		if err != nil {
			klog.Errorf("%s", err.Error())
			return
		}
		if err = db.Ping(); err != nil {
			klog.ErrorS(err, "failed to ping db")
			return
		}
		c := &Client{db: db, DBConfig: cfg}
		if err = c.InitSchema(context.Background()); err != nil {
			klog.ErrorS(err, "failed to init db schema")
			return
		}
		instance = c
		klog.Infof("init db-client successfully! request-timeout: %s", cfg.RequestTimeout)
	})
	return instance
}

// NewClientWithDB wraps an existing pool. Used by tests.
func NewClientWithDB(db *sqlx.DB, cfg *utils.DBConfig) *Client {
	return &Client{db: db, DBConfig: cfg}
}

// Close performs the Close operation.
func (c *Client) Close() {
	err := c.db.Close()
	if err != nil {
		klog.ErrorS(err, "failed to close db connection")
	}
}

// HealthPing runs one trivial read against the pool.
func (c *Client) HealthPing(ctx context.Context) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	var one int
	if err = db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("db health ping failed: %v", err)
	}
	return nil
}

// getDB retrieves DB for internal use.
func (c *Client) getDB() (*sqlx.DB, error) {
	if c == nil || c.db == nil {
		return nil, commonerrors.NewInternalError("The client of db has not been initialized")
	}
	return c.db.Unsafe(), nil
}
