package sample

import (
	"context"
	"strconv"
	"strings"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/common/uuid"
	"github.com/scienceol/rockin/pkg/middleware/db"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/repo"
	"github.com/scienceol/rockin/pkg/repo/model"
)

type sampleImpl struct {
	repo.Storage
}

func New() repo.SampleRepo {
	return &sampleImpl{Storage: repo.NewBaseDB()}
}

func NewWith(ds *db.Datastore) repo.SampleRepo {
	return &sampleImpl{Storage: repo.NewBaseDBWith(ds)}
}

func (s *sampleImpl) GetWell(ctx context.Context, ref string) (*model.Well, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, code.RecordNotFound
	}

	well := &model.Well{}
	// name: 前缀跳过 id 和 uuid
	if name, ok := strings.CutPrefix(ref, repo.WellNamePrefix); ok {
		return s.wellByName(ctx, well, strings.TrimSpace(name))
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		found, err := s.FindOne(ctx, well, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if found {
			return well, nil
		}
	}
	if wellUUID, err := uuid.FromString(ref); err == nil {
		found, err := s.FindOne(ctx, well, map[string]any{"uuid": wellUUID})
		if err != nil {
			return nil, err
		}
		if found {
			return well, nil
		}
	}

	return s.wellByName(ctx, well, ref)
}

func (s *sampleImpl) wellByName(ctx context.Context, well *model.Well, name string) (*model.Well, error) {
	found, err := s.FindOne(ctx, well, map[string]any{"well_name": name})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, code.RecordNotFound
	}
	return well, nil
}

func (s *sampleImpl) ListWells(ctx context.Context, q *repo.WellQuery) ([]*model.Well, int64, error) {
	tx := s.DBWithContext(ctx).Model(&model.Well{})
	if q.NameLike != "" {
		tx = tx.Where("well_name LIKE ?", "%"+q.NameLike+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListWells count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	wells := make([]*model.Well, 0, q.Limit)
	if err := tx.Order("id desc").Offset(q.Offset).Limit(q.Limit).Find(&wells).Error; err != nil {
		logger.Errorf(ctx, "ListWells err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return wells, total, nil
}

func (s *sampleImpl) ListSamples(ctx context.Context, q *repo.SampleQuery, out any) (int64, error) {
	tx := s.DBWithContext(ctx).Model(q.Table).Where("well_id = ?", q.WellID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListSamples table: %s count err: %+v", q.Table.TableName(), err)
		return 0, code.QueryRecordErr.WithErr(err)
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	if err := tx.Order("id desc").Offset(q.Offset).Limit(q.Limit).Find(out).Error; err != nil {
		logger.Errorf(ctx, "ListSamples table: %s err: %+v", q.Table.TableName(), err)
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}
