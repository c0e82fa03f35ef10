// Package testutil wires in-memory infrastructure for package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/scienceol/rockin/pkg/middleware/db"
	"github.com/scienceol/rockin/pkg/repo/migrate"
)

var seq atomic.Int64

// SetupDB installs a migrated in-memory SQLite datastore as the global db.
func SetupDB(t testing.TB) *db.Datastore {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conf := &db.Config{
		Driver:  db.DriverSQLite,
		DSN:     fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, seq.Add(1)),
		LogConf: db.LogConf{Level: "silent"},
	}
	if err := db.Init(ctx, conf); err != nil {
		t.Fatalf("init sqlite: %v", err)
	}
	if err := migrate.Table(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close(ctx) })
	return db.DB()
}
