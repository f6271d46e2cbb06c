/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"

	dbutils "github.com/kshitizz36/Urumi-AI/pkg/database/utils"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

const (
	TPStore = "stores"

	// StatusDeleted / StatusFailed are duplicated here because the repository
	// must not depend on the provisioner package.
	statusFailed  = "failed"
	statusDeleted = "deleted"
)

var (
	insertStoreFormat = `INSERT INTO ` + TPStore + ` (%s) VALUES (%s);`
)

// InsertStore inserts a new store record. The caller supplies the id and the
// initial timestamps.
func (c *Client) InsertStore(ctx context.Context, store *Store) error {
	if store == nil {
		return commonerrors.NewBadRequest("the input is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.NamedExecContext(ctx, generateCommand(*store, insertStoreFormat, ""), store)
	if err != nil {
		return fmt.Errorf("failed to insert store to db: %v", err)
	}
	return nil
}

// InsertStoreReserving counts active records and inserts in one transaction
// so the active-store cap cannot be breached by concurrent admissions.
func (c *Client) InsertStoreReserving(ctx context.Context, store *Store, maxActive int) error {
	if store == nil {
		return commonerrors.NewBadRequest("the input is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serializes concurrent reservations; creates are rare and the table is tiny.
	if _, err = tx.ExecContext(ctx, `LOCK TABLE `+TPStore+` IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock %s: %v", TPStore, err)
	}
	var active int
	err = tx.GetContext(ctx, &active,
		`SELECT COUNT(*) FROM `+TPStore+` WHERE status NOT IN ($1, $2)`, statusFailed, statusDeleted)
	if err != nil {
		return fmt.Errorf("failed to count active stores: %v", err)
	}
	if active >= maxActive {
		return commonerrors.NewStoreCapReached(
			fmt.Sprintf("active store limit reached (%d/%d)", active, maxActive))
	}
	if _, err = tx.NamedExecContext(ctx, generateCommand(*store, insertStoreFormat, ""), store); err != nil {
		return fmt.Errorf("failed to insert store to db: %v", err)
	}
	return tx.Commit()
}

// UpdateStore mutates only the provided columns and refreshes updated_at.
// It returns the updated row, or a not-found error when the id is unknown.
func (c *Client) UpdateStore(ctx context.Context, id string, fields map[string]interface{}) (*Store, error) {
	if len(fields) == 0 {
		return nil, commonerrors.NewBadRequest("no fields to update")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	builder := sqrl.StatementBuilder.PlaceholderFormat(sqrl.Dollar).
		Update(TPStore).
		SetMap(fields).
		Set("updated_at", dbutils.NullTime(time.Now().UTC())).
		Where(sqrl.Eq{"id": id}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update store query: %v", err)
	}

	var store Store
	err = db.GetContext(ctx, &store, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, commonerrors.NewStoreNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update store in db: %v", err)
	}
	return &store, nil
}

// SelectStoreById retrieves one store record, deleted ones included.
func (c *Client) SelectStoreById(ctx context.Context, id string) (*Store, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var store Store
	err = db.GetContext(ctx, &store, `SELECT * FROM `+TPStore+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, commonerrors.NewStoreNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select store from db: %v", err)
	}
	return &store, nil
}

// SelectStores lists non-deleted records, most recent first. Deleted records
// stay in the table for audit but are hidden from default listings.
func (c *Client) SelectStores(ctx context.Context) ([]*Store, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	builder := sqrl.StatementBuilder.PlaceholderFormat(sqrl.Dollar).
		Select("*").From(TPStore).
		Where(sqrl.NotEq{"status": statusDeleted}).
		OrderBy(CreatedAt + " " + DESC)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select stores query: %v", err)
	}

	var stores []*Store
	err = db.SelectContext(ctx, &stores, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select stores from db: %v", err)
	}
	return stores, nil
}

// SoftDeleteStore sets status=deleted and stamps deleted_at.
func (c *Client) SoftDeleteStore(ctx context.Context, id string) error {
	_, err := c.UpdateStore(ctx, id, map[string]interface{}{
		"status":     statusDeleted,
		"deleted_at": dbutils.NullTime(time.Now().UTC()),
	})
	return err
}

// CountActiveStores counts records whose status is neither failed nor deleted.
func (c *Client) CountActiveStores(ctx context.Context) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	var count int
	err = db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM `+TPStore+` WHERE status NOT IN ($1, $2)`, statusFailed, statusDeleted)
	if err != nil {
		return 0, fmt.Errorf("failed to count active stores: %v", err)
	}
	return count, nil
}

// SelectStaleProvisioning returns provisioning records last touched before
// cutoff. The reaper uses this to reclaim pipelines orphaned by a crash.
func (c *Client) SelectStaleProvisioning(ctx context.Context, cutoff time.Time) ([]*Store, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var stores []*Store
	err = db.SelectContext(ctx, &stores,
		`SELECT * FROM `+TPStore+` WHERE status = 'provisioning' AND updated_at < $1`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select stale stores from db: %v", err)
	}
	return stores, nil
}
