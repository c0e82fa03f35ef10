package migrate

import (
	"context"

	"github.com/scienceol/rockin/pkg/middleware/db"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/repo/model"
)

func Models() []any {
	return []any{
		&model.Well{},
		&model.Core{},
		&model.CoreChip{},
		&model.MicroCore{},
		&model.Cuttings{},
		&model.SampleEvent{},
	}
}

func Table(ctx context.Context) error {
	return TableWith(ctx, db.DB())
}

func TableWith(ctx context.Context, ds *db.Datastore) error {
	d := ds.DBWithContext(ctx)
	for _, m := range Models() {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}
