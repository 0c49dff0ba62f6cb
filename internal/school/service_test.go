package school

import (
	"context"
	"errors"
	"testing"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/push"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockSchoolRepository is a mock type for school.Repository
type MockSchoolRepository struct {
	mock.Mock
}

func (m *MockSchoolRepository) Create(ctx context.Context, s *School) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*School), args.Error(1)
}

func (m *MockSchoolRepository) FindBySlug(ctx context.Context, slug string) (*School, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*School), args.Error(1)
}

func (m *MockSchoolRepository) Update(ctx context.Context, s *School) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSchoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSchoolRepository) List(ctx context.Context, query ListSchoolsQuery) ([]School, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]School), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSchoolRepository) ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]School), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSchoolRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchoolRepository) ToggleFavorite(ctx context.Context, userID, schoolID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, schoolID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSchoolRepository) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]School, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]School), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockSchoolRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]School, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]School), args.Error(1)
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

func newTestService(repo Repository, notifier push.Notifier) Service {
	return NewService(repo, notifier, nil, &config.Config{}, zap.NewNop())
}

func TestCreateSchool_RegularUserGoesThroughModeration(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	ownerID := uuid.New()

	mockRepo.On("FindBySlug", mock.Anything, "green-hall").Return(nil, common.ErrNotFound.WithDetails("School not found."))
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *School) bool {
		return s.Pending && s.OwnerID == ownerID && s.Slug == "green-hall"
	})).Return(nil)
	mockNotifier.On("NotifySubmissionPending", mock.Anything, push.TypeSchool).Return(nil)

	created, err := svc.Create(context.Background(), ownerID, false, CreateSchoolRequest{Name: "Green Hall"})

	assert.NoError(t, err)
	assert.True(t, created.Pending)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestCreateSchool_AdminSubmissionIsLiveImmediately(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	mockRepo.On("FindBySlug", mock.Anything, "oak-house").Return(nil, common.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *School) bool {
		return !s.Pending
	})).Return(nil)

	created, err := svc.Create(context.Background(), uuid.New(), true, CreateSchoolRequest{Name: "Oak House"})

	assert.NoError(t, err)
	assert.False(t, created.Pending)
	mockNotifier.AssertNotCalled(t, "NotifySubmissionPending", mock.Anything, mock.Anything)
}

func TestCreateSchool_PushFailureDoesNotFailCreate(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	mockRepo.On("FindBySlug", mock.Anything, mock.Anything).Return(nil, common.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockNotifier.On("NotifySubmissionPending", mock.Anything, push.TypeSchool).Return(errors.New("fcm down"))

	_, err := svc.Create(context.Background(), uuid.New(), false, CreateSchoolRequest{Name: "Pine Lodge"})

	assert.NoError(t, err)
}

func TestApproveSchool_AppliesModificationsAndNotifiesOwner(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	ownerID := uuid.New()
	schoolID := uuid.New()
	existing := &School{
		BaseModel: common.BaseModel{ID: schoolID},
		Name:      "State Univ",
		Slug:      "state-univ",
		Pending:   true,
		OwnerID:   ownerID,
	}

	newName := "State University"
	mockRepo.On("FindByID", mock.Anything, schoolID).Return(existing, nil)
	mockRepo.On("FindBySlug", mock.Anything, "state-university").Return(nil, common.ErrNotFound)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(s *School) bool {
		return !s.Pending && s.Name == "State University" && s.Slug == "state-university"
	})).Return(nil)
	mockNotifier.On("NotifyApproved", mock.Anything, ownerID, push.TypeSchool, schoolID).Return(nil)

	approved, err := svc.Approve(context.Background(), schoolID, ApproveSchoolRequest{Name: &newName})

	assert.NoError(t, err)
	assert.False(t, approved.Pending)
	assert.Equal(t, "State University", approved.Name)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestApproveSchool_AlreadyApprovedConflicts(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	schoolID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, schoolID).Return(&School{
		BaseModel: common.BaseModel{ID: schoolID},
		Pending:   false,
	}, nil)

	_, err := svc.Approve(context.Background(), schoolID, ApproveSchoolRequest{})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRejectSchool_DeletesAndNotifiesWithReason(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	ownerID := uuid.New()
	schoolID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, schoolID).Return(&School{
		BaseModel: common.BaseModel{ID: schoolID},
		Pending:   true,
		OwnerID:   ownerID,
	}, nil)
	mockRepo.On("Delete", mock.Anything, schoolID).Return(nil)
	mockNotifier.On("NotifyRejected", mock.Anything, ownerID, push.TypeSchool, "duplicate entry").Return(nil)

	err := svc.Reject(context.Background(), schoolID, "duplicate entry")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestDeleteSchool_OwnerCannotDeleteApproved(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	ownerID := uuid.New()
	schoolID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, schoolID).Return(&School{
		BaseModel: common.BaseModel{ID: schoolID},
		Pending:   false,
		OwnerID:   ownerID,
	}, nil)

	err := svc.Delete(context.Background(), schoolID, ownerID, false)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteSchool_OwnerDeletesOwnPending(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	ownerID := uuid.New()
	schoolID := uuid.New()
	mockRepo.On("FindByID", mock.Anything, schoolID).Return(&School{
		BaseModel: common.BaseModel{ID: schoolID},
		Pending:   true,
		OwnerID:   ownerID,
	}, nil)
	mockRepo.On("Delete", mock.Anything, schoolID).Return(nil)

	err := svc.Delete(context.Background(), schoolID, ownerID, false)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestHasPending(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	mockRepo.On("CountPending", mock.Anything).Return(int64(3), nil).Once()
	hasPending, err := svc.HasPending(context.Background())
	assert.NoError(t, err)
	assert.True(t, hasPending)

	mockRepo.On("CountPending", mock.Anything).Return(int64(0), nil).Once()
	hasPending, err = svc.HasPending(context.Background())
	assert.NoError(t, err)
	assert.False(t, hasPending)
}

func TestSearchSchools_UnavailableWithoutClient(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	_, err := svc.Search(context.Background(), "state", 10)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrServiceUnavailable.Code, apiErr.Code)
}

func TestSearchSchools_EmptyTermReturnsEmpty(t *testing.T) {
	mockRepo := new(MockSchoolRepository)
	mockNotifier := new(MockNotifier)
	svc := newTestService(mockRepo, mockNotifier)

	results, err := svc.Search(context.Background(), "   ", 10)

	assert.NoError(t, err)
	assert.Empty(t, results)
}
