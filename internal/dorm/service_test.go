package dorm

import (
	"context"
	"testing"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/push"
	"dormview_backend/internal/school"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockDormRepository is a mock type for dorm.Repository
type MockDormRepository struct {
	mock.Mock
}

func (m *MockDormRepository) Create(ctx context.Context, d *Dorm) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Dorm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Dorm), args.Error(1)
}

func (m *MockDormRepository) Update(ctx context.Context, d *Dorm) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDormRepository) ListBySchool(ctx context.Context, schoolID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	args := m.Called(ctx, schoolID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Dorm), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockDormRepository) ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Dorm), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockDormRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDormRepository) ToggleFavorite(ctx context.Context, userID, dormID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, dormID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDormRepository) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Dorm, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Dorm), args.Get(1).(*common.Pagination), args.Error(2)
}

// MockSchoolService is a mock type for school.Service
type MockSchoolService struct {
	mock.Mock
}

func (m *MockSchoolService) List(ctx context.Context, query school.ListSchoolsQuery) ([]school.School, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]school.School), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSchoolService) GetByID(ctx context.Context, id uuid.UUID) (*school.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.School), args.Error(1)
}

func (m *MockSchoolService) Search(ctx context.Context, term string, size int) ([]school.SchoolResponse, error) {
	args := m.Called(ctx, term, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]school.SchoolResponse), args.Error(1)
}

func (m *MockSchoolService) Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req school.CreateSchoolRequest) (*school.School, error) {
	args := m.Called(ctx, ownerID, isAdmin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.School), args.Error(1)
}

func (m *MockSchoolService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, id, userID, isAdmin)
	return args.Error(0)
}

func (m *MockSchoolService) ToggleFavorite(ctx context.Context, userID, schoolID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, schoolID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSchoolService) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]school.School, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]school.School), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSchoolService) ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]school.School, *common.Pagination, error) {
	args := m.Called(ctx, userID, isAdmin, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]school.School), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSchoolService) HasPending(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSchoolService) Approve(ctx context.Context, id uuid.UUID, req school.ApproveSchoolRequest) (*school.School, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.School), args.Error(1)
}

func (m *MockSchoolService) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// MockNotifier is a mock type for push.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyApproved(ctx context.Context, ownerID uuid.UUID, kind string, contentID uuid.UUID) error {
	args := m.Called(ctx, ownerID, kind, contentID)
	return args.Error(0)
}

func (m *MockNotifier) NotifyRejected(ctx context.Context, ownerID uuid.UUID, kind, reason string) error {
	args := m.Called(ctx, ownerID, kind, reason)
	return args.Error(0)
}

func (m *MockNotifier) NotifySubmissionPending(ctx context.Context, kind string) error {
	args := m.Called(ctx, kind)
	return args.Error(0)
}

func (m *MockNotifier) NotifyFeedback(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func approvedSchool(id uuid.UUID) *school.School {
	return &school.School{
		BaseModel: common.BaseModel{ID: id},
		Name:      "State University",
		Slug:      "state-university",
		Pending:   false,
	}
}

func TestCreateDorm_RequiresApprovedSchool(t *testing.T) {
	mockRepo := new(MockDormRepository)
	mockSchools := new(MockSchoolService)
	mockNotifier := new(MockNotifier)
	svc := NewService(mockRepo, mockSchools, mockNotifier, &config.Config{}, zap.NewNop())

	schoolID := uuid.New()
	pendingParent := &school.School{
		BaseModel: common.BaseModel{ID: schoolID},
		Pending:   true,
	}
	mockSchools.On("GetByID", mock.Anything, schoolID).Return(pendingParent, nil)

	_, err := svc.Create(context.Background(), uuid.New(), false, CreateDormRequest{
		Name:     "West Hall",
		SchoolID: schoolID,
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDorm_PendingForRegularUserAndNotifiesAdmins(t *testing.T) {
	mockRepo := new(MockDormRepository)
	mockSchools := new(MockSchoolService)
	mockNotifier := new(MockNotifier)
	svc := NewService(mockRepo, mockSchools, mockNotifier, &config.Config{}, zap.NewNop())

	schoolID := uuid.New()
	ownerID := uuid.New()
	mockSchools.On("GetByID", mock.Anything, schoolID).Return(approvedSchool(schoolID), nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *Dorm) bool {
		return d.Pending && d.OwnerID == ownerID && d.SchoolID == schoolID
	})).Return(nil)
	mockNotifier.On("NotifySubmissionPending", mock.Anything, push.TypeDorm).Return(nil)

	created, err := svc.Create(context.Background(), ownerID, false, CreateDormRequest{
		Name:     "West Hall",
		SchoolID: schoolID,
		Styles:   []string{"suite", "traditional"},
	})

	assert.NoError(t, err)
	assert.True(t, created.Pending)
	assert.Equal(t, []string{"suite", "traditional"}, []string(created.Styles))
	mockNotifier.AssertExpectations(t)
}

func TestApproveDorm_AppliesModificationsAndNotifiesOwner(t *testing.T) {
	mockRepo := new(MockDormRepository)
	mockSchools := new(MockSchoolService)
	mockNotifier := new(MockNotifier)
	svc := NewService(mockRepo, mockSchools, mockNotifier, &config.Config{}, zap.NewNop())

	ownerID := uuid.New()
	dormID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, dormID).Return(&Dorm{
		BaseModel: common.BaseModel{ID: dormID},
		Name:      "west hall",
		Pending:   true,
		OwnerID:   ownerID,
	}, nil)

	newName := "West Hall"
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *Dorm) bool {
		return !d.Pending && d.Name == "West Hall"
	})).Return(nil)
	mockNotifier.On("NotifyApproved", mock.Anything, ownerID, push.TypeDorm, dormID).Return(nil)

	approved, err := svc.Approve(context.Background(), dormID, ApproveDormRequest{Name: &newName})

	assert.NoError(t, err)
	assert.False(t, approved.Pending)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestRejectDorm_OnlyPendingCanBeRejected(t *testing.T) {
	mockRepo := new(MockDormRepository)
	mockSchools := new(MockSchoolService)
	mockNotifier := new(MockNotifier)
	svc := NewService(mockRepo, mockSchools, mockNotifier, &config.Config{}, zap.NewNop())

	dormID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, dormID).Return(&Dorm{
		BaseModel: common.BaseModel{ID: dormID},
		Pending:   false,
	}, nil)

	err := svc.Reject(context.Background(), dormID, "not a dorm")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
