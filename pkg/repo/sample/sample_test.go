package sample

import (
	"context"
	"strconv"
	"testing"

	"github.com/scienceol/rockin/internal/testutil"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/repo"
	"github.com/scienceol/rockin/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type sampleRepoSuite struct {
	suite.Suite
	ctx  context.Context
	repo repo.SampleRepo
	well *model.Well
}

func (s *sampleRepoSuite) SetupTest() {
	testutil.SetupDB(s.T())
	s.ctx = context.Background()
	s.repo = New()
	s.well = &model.Well{WellName: "DEL-GT-01"}
	s.Require().NoError(s.repo.CreateData(s.ctx, s.well))
}

func (s *sampleRepoSuite) newCore(n int64, coreNumber string) *model.Core {
	return &model.Core{
		WellID:            s.well.ID,
		CoreNumber:        coreNumber,
		PlannedCoreNumber: coreNumber,
		CoreSectionNumber: n,
		CoreSectionName:   "DELGT01-" + coreNumber + "-" + string(rune('0'+n)),
		CoreType:          model.CoreTypeCore,
		RegistrationMeta:  model.RegistrationMeta{RegisteredBy: "tech"},
	}
}

func (s *sampleRepoSuite) TestGetWell() {
	byName, err := s.repo.GetWell(s.ctx, "DEL-GT-01")
	s.Require().NoError(err)
	s.Equal(s.well.ID, byName.ID)

	byID, err := s.repo.GetWell(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(s.well.UUID, byID.UUID)

	byUUID, err := s.repo.GetWell(s.ctx, s.well.UUID.String())
	s.Require().NoError(err)
	s.Equal(s.well.ID, byUUID.ID)

	_, err = s.repo.GetWell(s.ctx, "Unknown Well")
	s.ErrorIs(err, code.RecordNotFound)

	_, err = s.repo.GetWell(s.ctx, "  ")
	s.ErrorIs(err, code.RecordNotFound)
}

func (s *sampleRepoSuite) TestFindMaxAndExists() {
	_, ok, err := s.repo.FindMax(s.ctx, &model.Core{}, "core_section_number", map[string]any{"core_number": "C1"})
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.repo.CreateData(s.ctx, s.newCore(1, "C1")))
	s.Require().NoError(s.repo.CreateData(s.ctx, s.newCore(4, "C1")))
	s.Require().NoError(s.repo.CreateData(s.ctx, s.newCore(7, "C2")))

	max, ok, err := s.repo.FindMax(s.ctx, &model.Core{}, "core_section_number", map[string]any{"core_number": "C1"})
	s.Require().NoError(err)
	s.True(ok)
	s.EqualValues(4, max)

	exists, err := s.repo.Exists(s.ctx, &model.Core{}, map[string]any{"core_section_name": "DELGT01-C2-7"})
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.repo.Exists(s.ctx, &model.Core{}, map[string]any{"core_section_name": "DELGT01-C2-8"})
	s.Require().NoError(err)
	s.False(exists)
}

func (s *sampleRepoSuite) TestCreateDuplicate() {
	s.Require().NoError(s.repo.CreateData(s.ctx, s.newCore(1, "C1")))
	err := s.repo.CreateData(s.ctx, s.newCore(1, "C1"))
	s.ErrorIs(err, code.DuplicateRecordErr)
}

func (s *sampleRepoSuite) TestListSamples() {
	for i := int64(1); i <= 3; i++ {
		s.Require().NoError(s.repo.CreateData(s.ctx, s.newCore(i, "C3")))
	}
	cores := make([]*model.Core, 0)
	total, err := s.repo.ListSamples(s.ctx, &repo.SampleQuery{Table: &model.Core{}, WellID: s.well.ID, Limit: 2}, &cores)
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Require().Len(cores, 2)
	s.EqualValues(3, cores[0].CoreSectionNumber)
}

func (s *sampleRepoSuite) TestGetWellNumericName() {
	numeric := &model.Well{WellName: "42"}
	s.Require().NoError(s.repo.CreateData(s.ctx, numeric))
	// 42 is not an id yet, so the name matches
	got, err := s.repo.GetWell(s.ctx, "42")
	s.Require().NoError(err)
	s.Equal(numeric.ID, got.ID)

	named := &model.Well{WellName: strconv.FormatInt(s.well.ID, 10)}
	s.Require().NoError(s.repo.CreateData(s.ctx, named))

	got, err = s.repo.GetWell(s.ctx, named.WellName)
	s.Require().NoError(err)
	s.Equal(s.well.ID, got.ID)

	got, err = s.repo.GetWell(s.ctx, repo.WellNamePrefix+named.WellName)
	s.Require().NoError(err)
	s.Equal(named.ID, got.ID)

	_, err = s.repo.GetWell(s.ctx, repo.WellNamePrefix+"DEL-GT-99")
	s.ErrorIs(err, code.RecordNotFound)
}

func (s *sampleRepoSuite) TestListWells() {
	s.Require().NoError(s.repo.CreateData(s.ctx, &model.Well{WellName: "NLW-GT-02"}))
	wells, total, err := s.repo.ListWells(s.ctx, &repo.WellQuery{NameLike: "GT"})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Equal("NLW-GT-02", wells[0].WellName)
}

func (s *sampleRepoSuite) TestUUIDTranslate() {
	ids := s.repo.UUID2ID(s.ctx, &model.Well{}, s.well.UUID)
	s.Equal(s.well.ID, ids[s.well.UUID])
	uuids := s.repo.ID2UUID(s.ctx, &model.Well{}, s.well.ID)
	s.Equal(s.well.UUID, uuids[s.well.ID])
}

func TestSampleRepo(t *testing.T) {
	suite.Run(t, new(sampleRepoSuite))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, repo.IsUniqueViolation(nil))
	assert.True(t, repo.IsUniqueViolation(assertErr("UNIQUE constraint failed: cores.core_section_name")))
	assert.True(t, repo.IsUniqueViolation(assertErr(`ERROR: duplicate key value violates unique constraint "idx_cores_core_section_name"`)))
	require.False(t, repo.IsUniqueViolation(assertErr("connection refused")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
