/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/lib/pq"
)

const (
	DESC = "desc"
	ASC  = "asc"

	CreatedAt = "created_at"
)

// Store is the durable record of one provisioned e-commerce store.
// The namespace is always derived as "store-" + Id and never mutated.
type Store struct {
	Id                     string         `db:"id"`
	Name                   string         `db:"name"`
	Namespace              string         `db:"namespace"`
	Engine                 string         `db:"engine"`
	Status                 string         `db:"status"`
	Phase                  sql.NullString `db:"phase"`
	Url                    sql.NullString `db:"url"`
	AdminUrl               sql.NullString `db:"admin_url"`
	DBReady                bool           `db:"db_ready"`
	AppReady               bool           `db:"app_ready"`
	ErrorMessage           sql.NullString `db:"error_message"`
	ErrorPhase             sql.NullString `db:"error_phase"`
	CreatedAt              pq.NullTime    `db:"created_at"`
	UpdatedAt              pq.NullTime    `db:"updated_at"`
	ReadyAt                pq.NullTime    `db:"ready_at"`
	DeletedAt              pq.NullTime    `db:"deleted_at"`
	ProvisioningDurationMs sql.NullInt64  `db:"provisioning_duration_ms"`
}

// GetStoreFieldTags returns the StoreFieldTags value.
func GetStoreFieldTags() map[string]string {
	s := Store{}
	return getFieldTags(s)
}

// AuditLog is one append-only audit entry. Entries are never mutated or
// deleted; the serial id keeps them monotonic under concurrent appends.
type AuditLog struct {
	Id         int64          `db:"id"`
	Action     string         `db:"action"`
	StoreId    sql.NullString `db:"store_id"`
	StoreName  sql.NullString `db:"store_name"`
	Engine     sql.NullString `db:"engine"`
	SourceIp   sql.NullString `db:"source_ip"`
	Details    sql.NullString `db:"details"`
	DurationMs sql.NullInt64  `db:"duration_ms"`
	CreatedAt  pq.NullTime    `db:"created_at"`
}

// GetAuditLogFieldTags returns the AuditLogFieldTags value.
func GetAuditLogFieldTags() map[string]string {
	a := AuditLog{}
	return getFieldTags(a)
}

// getFieldTags retrieves FieldTags for internal use.
func getFieldTags(obj interface{}) map[string]string {
	result := make(map[string]string)
	t := reflect.TypeOf(obj)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result[strings.ToLower(field.Name)] = field.Tag.Get("db")
	}
	return result
}

// generateCommand generates SQL command string using reflection
// Iterates through struct fields and builds column and value lists
// Skips fields with specified ignoreTag
// Returns formatted SQL command with columns and values
func generateCommand(obj interface{}, format, ignoreTag string) string {
	t := reflect.TypeOf(obj)
	columns := make([]string, 0, t.NumField())
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == ignoreTag {
			continue
		}
		columns = append(columns, tag)
		values = append(values, fmt.Sprintf(":%s", tag))
	}
	cmd := fmt.Sprintf(format, strings.Join(columns, ", "), strings.Join(values, ", "))
	return cmd
}
