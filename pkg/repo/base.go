package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/common/uuid"
	"github.com/scienceol/rockin/pkg/middleware/db"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type IDOrUUIDTranslate interface {
	UUID2ID(ctx context.Context, tableModel schema.Tabler, uuids ...uuid.UUID) map[uuid.UUID]int64
	ID2UUID(ctx context.Context, tableModel schema.Tabler, ids ...int64) map[int64]uuid.UUID
	DBWithContext(ctx context.Context) *gorm.DB
	ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Storage is the row level contract the registration engine relies on.
type Storage interface {
	IDOrUUIDTranslate
	// CreateData inserts data, a unique constraint violation returns code.DuplicateRecordErr.
	CreateData(ctx context.Context, data any) error
	// FindOne loads the first row matching conds into dest.
	FindOne(ctx context.Context, dest any, conds map[string]any) (bool, error)
	// FindMax returns MAX(field) over rows matching conds, false when no row matches.
	FindMax(ctx context.Context, tableModel schema.Tabler, field string, conds map[string]any) (int64, bool, error)
	Exists(ctx context.Context, tableModel schema.Tabler, conds map[string]any) (bool, error)
}

type baseDB struct {
	*db.Datastore
}

func NewBaseDB() Storage {
	return &baseDB{Datastore: db.DB()}
}

func NewBaseDBWith(ds *db.Datastore) Storage {
	return &baseDB{Datastore: ds}
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

func where(tx *gorm.DB, conds map[string]any) *gorm.DB {
	if len(conds) == 0 {
		return tx
	}
	return tx.Where(conds)
}

func (b *baseDB) CreateData(ctx context.Context, data any) error {
	if err := b.DBWithContext(ctx).Create(data).Error; err != nil {
		if IsUniqueViolation(err) {
			return code.DuplicateRecordErr.WithErr(err)
		}
		logger.Errorf(ctx, "CreateData err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func (b *baseDB) FindOne(ctx context.Context, dest any, conds map[string]any) (bool, error) {
	err := where(b.DBWithContext(ctx), conds).Take(dest).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	logger.Errorf(ctx, "FindOne err: %+v", err)
	return false, code.QueryRecordErr.WithErr(err)
}

func (b *baseDB) FindMax(ctx context.Context, tableModel schema.Tabler, field string, conds map[string]any) (int64, bool, error) {
	var max sql.NullInt64
	row := where(b.DBWithContext(ctx).Model(tableModel), conds).
		Select("MAX(?)", clause.Column{Name: field}).
		Row()
	if err := row.Scan(&max); err != nil {
		logger.Errorf(ctx, "FindMax table: %s field: %s err: %+v", tableModel.TableName(), field, err)
		return 0, false, code.QueryRecordErr.WithErr(err)
	}
	return max.Int64, max.Valid, nil
}

func (b *baseDB) Exists(ctx context.Context, tableModel schema.Tabler, conds map[string]any) (bool, error) {
	var count int64
	if err := where(b.DBWithContext(ctx).Model(tableModel), conds).Count(&count).Error; err != nil {
		logger.Errorf(ctx, "Exists table: %s err: %+v", tableModel.TableName(), err)
		return false, code.QueryRecordErr.WithErr(err)
	}
	return count > 0, nil
}

type idUUID struct {
	ID   int64
	UUID uuid.UUID
}

func (b *baseDB) UUID2ID(ctx context.Context, tableModel schema.Tabler, uuids ...uuid.UUID) map[uuid.UUID]int64 {
	res := make(map[uuid.UUID]int64, len(uuids))
	if len(uuids) == 0 {
		return res
	}
	rows := make([]*idUUID, 0, len(uuids))
	if err := b.DBWithContext(ctx).Model(tableModel).
		Select("id", "uuid").
		Where("uuid IN ?", uuids).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "UUID2ID table: %s err: %+v", tableModel.TableName(), err)
		return res
	}
	for _, r := range rows {
		res[r.UUID] = r.ID
	}
	return res
}

func (b *baseDB) ID2UUID(ctx context.Context, tableModel schema.Tabler, ids ...int64) map[int64]uuid.UUID {
	res := make(map[int64]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return res
	}
	rows := make([]*idUUID, 0, len(ids))
	if err := b.DBWithContext(ctx).Model(tableModel).
		Select("id", "uuid").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "ID2UUID table: %s err: %+v", tableModel.TableName(), err)
		return res
	}
	for _, r := range rows {
		res[r.ID] = r.UUID
	}
	return res
}
