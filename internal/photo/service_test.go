package photo

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"
	"dormview_backend/internal/dorm"
	"dormview_backend/internal/push"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPhotoRepository is a mock type for photo.Repository
type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) Create(ctx context.Context, p *Photo) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Photo), args.Error(1)
}

func (m *MockPhotoRepository) Update(ctx context.Context, p *Photo) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPhotoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPhotoRepository) ListByDorm(ctx context.Context, dormID uuid.UUID, query ListDormPhotosQuery) ([]Photo, *common.Pagination, error) {
	args := m.Called(ctx, dormID, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Photo), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockPhotoRepository) RoomsForDorm(ctx context.Context, dormID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, dormID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPhotoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Photo), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockPhotoRepository) ListPending(ctx context.Context, ownerID *uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Photo), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockPhotoRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPhotoRepository) ToggleSaved(ctx context.Context, userID, photoID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, photoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPhotoRepository) ListSaved(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Photo, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Photo), args.Get(1).(*common.Pagination), args.Error(2)
}

// MockDormService is a mock type for dorm.Service
type MockDormService struct {
	mock.Mock
}

func (m *MockDormService) ListBySchool(ctx context.Context, schoolID uuid.UUID, page, pageSize int) ([]dorm.Dorm, *common.Pagination, error) {
	args := m.Called(ctx, schoolID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dorm.Dorm), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockDormService) GetByID(ctx context.Context, id uuid.UUID) (*dorm.Dorm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dorm.Dorm), args.Error(1)
}

func (m *MockDormService) Create(ctx context.Context, ownerID uuid.UUID, isAdmin bool, req dorm.CreateDormRequest) (*dorm.Dorm, error) {
	args := m.Called(ctx, ownerID, isAdmin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dorm.Dorm), args.Error(1)
}

func (m *MockDormService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, id, userID, isAdmin)
	return args.Error(0)
}

func (m *MockDormService) ToggleFavorite(ctx context.Context, userID, dormID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, dormID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDormService) ListFavorites(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]dorm.Dorm, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dorm.Dorm), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockDormService) ListPending(ctx context.Context, userID uuid.UUID, isAdmin bool, page, pageSize int) ([]dorm.Dorm, *common.Pagination, error) {
	args := m.Called(ctx, userID, isAdmin, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dorm.Dorm), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockDormService) HasPending(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockDormService) Approve(ctx context.Context, id uuid.UUID, req dorm.ApproveDormRequest) (*dorm.Dorm, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dorm.Dorm), args.Error(1)
}

func (m *MockDormService) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// MockStorage is a mock type for photo.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUploadedFile(fileHeader *multipart.FileHeader, subDir string) (string, error) {
	args := m.Called(fileHeader, subDir)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteFile(relativePath string) error {
	args := m.Called(relativePath)
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

type photoTestDeps struct {
	repo     *MockPhotoRepository
	dorms    *MockDormService
	storage  *MockStorage
	notifier *MockNotifier
	svc      Service
}

func newPhotoTestDeps() photoTestDeps {
	repo := new(MockPhotoRepository)
	dorms := new(MockDormService)
	storage := new(MockStorage)
	notifier := new(MockNotifier)
	svc := NewService(repo, dorms, storage, notifier, &config.Config{PhotoPublicBaseURL: "/photos"}, zap.NewNop())
	return photoTestDeps{repo: repo, dorms: dorms, storage: storage, notifier: notifier, svc: svc}
}

func approvedDorm(id uuid.UUID) *dorm.Dorm {
	return &dorm.Dorm{
		BaseModel: common.BaseModel{ID: id},
		Name:      "West Hall",
		SchoolID:  uuid.New(),
		Pending:   false,
	}
}

func uploadHeaders() (*multipart.FileHeader, *multipart.FileHeader) {
	return &multipart.FileHeader{Filename: "room.jpg"}, &multipart.FileHeader{Filename: "room_thumb.jpg"}
}

func TestCreatePhoto_Success(t *testing.T) {
	deps := newPhotoTestDeps()
	dormID := uuid.New()
	ownerID := uuid.New()
	full, thumb := uploadHeaders()

	deps.dorms.On("GetByID", mock.Anything, dormID).Return(approvedDorm(dormID), nil)
	deps.repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Photo) bool {
		return p.Pending && p.OwnerID == ownerID && p.DormID == dormID
	})).Return(nil)
	deps.storage.On("SaveUploadedFile", full, "full").Return("full/a.jpg", nil)
	deps.storage.On("SaveUploadedFile", thumb, "thumbs").Return("thumbs/a.jpg", nil)
	deps.repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Photo) bool {
		return p.FullPath == "full/a.jpg" && p.ThumbPath == "thumbs/a.jpg"
	})).Return(nil)
	deps.notifier.On("NotifySubmissionPending", mock.Anything, push.TypePhoto).Return(nil)

	created, err := deps.svc.Create(context.Background(), ownerID, false, CreatePhotoRequest{DormID: dormID}, full, thumb)

	assert.NoError(t, err)
	assert.Equal(t, "full/a.jpg", created.FullPath)
	assert.Equal(t, "thumbs/a.jpg", created.ThumbPath)
	deps.repo.AssertExpectations(t)
	deps.storage.AssertExpectations(t)
	deps.notifier.AssertExpectations(t)
}

func TestCreatePhoto_ThumbnailFailureCompensates(t *testing.T) {
	deps := newPhotoTestDeps()
	dormID := uuid.New()
	full, thumb := uploadHeaders()

	deps.dorms.On("GetByID", mock.Anything, dormID).Return(approvedDorm(dormID), nil)
	deps.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.storage.On("SaveUploadedFile", full, "full").Return("full/a.jpg", nil)
	deps.storage.On("SaveUploadedFile", thumb, "thumbs").Return("", errors.New("disk full"))

	// The compensation: delete the record, then the already-stored full image.
	deps.repo.On("Delete", mock.Anything, mock.Anything).Return(nil)
	deps.storage.On("DeleteFile", "full/a.jpg").Return(nil)

	_, err := deps.svc.Create(context.Background(), uuid.New(), false, CreatePhotoRequest{DormID: dormID}, full, thumb)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Contains(t, apiErr.Details, "disk full")
	deps.repo.AssertExpectations(t)
	deps.storage.AssertExpectations(t)
	deps.notifier.AssertNotCalled(t, "NotifySubmissionPending", mock.Anything, mock.Anything)
}

func TestCreatePhoto_FullImageFailureRollsBackRecord(t *testing.T) {
	deps := newPhotoTestDeps()
	dormID := uuid.New()
	full, thumb := uploadHeaders()

	deps.dorms.On("GetByID", mock.Anything, dormID).Return(approvedDorm(dormID), nil)
	deps.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.storage.On("SaveUploadedFile", full, "full").Return("", errors.New("write failed"))
	deps.repo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := deps.svc.Create(context.Background(), uuid.New(), false, CreatePhotoRequest{DormID: dormID}, full, thumb)

	assert.Error(t, err)
	deps.repo.AssertExpectations(t)
	deps.storage.AssertNotCalled(t, "DeleteFile", mock.Anything)
}

func TestCreatePhoto_RequiresApprovedDorm(t *testing.T) {
	deps := newPhotoTestDeps()
	dormID := uuid.New()
	full, thumb := uploadHeaders()

	deps.dorms.On("GetByID", mock.Anything, dormID).Return(&dorm.Dorm{
		BaseModel: common.BaseModel{ID: dormID},
		Pending:   true,
	}, nil)

	_, err := deps.svc.Create(context.Background(), uuid.New(), false, CreatePhotoRequest{DormID: dormID}, full, thumb)

	assert.Error(t, err)
	deps.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePhoto_MissingFiles(t *testing.T) {
	deps := newPhotoTestDeps()
	full, _ := uploadHeaders()

	_, err := deps.svc.Create(context.Background(), uuid.New(), false, CreatePhotoRequest{DormID: uuid.New()}, full, nil)

	assert.Error(t, err)
	deps.dorms.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRejectPhoto_DeletesFilesAndNotifies(t *testing.T) {
	deps := newPhotoTestDeps()
	ownerID := uuid.New()
	photoID := uuid.New()

	deps.repo.On("FindByID", mock.Anything, photoID).Return(&Photo{
		BaseModel: common.BaseModel{ID: photoID},
		OwnerID:   ownerID,
		Pending:   true,
		FullPath:  "full/a.jpg",
		ThumbPath: "thumbs/a.jpg",
	}, nil)
	deps.repo.On("Delete", mock.Anything, photoID).Return(nil)
	deps.storage.On("DeleteFile", "full/a.jpg").Return(nil)
	deps.storage.On("DeleteFile", "thumbs/a.jpg").Return(nil)
	deps.notifier.On("NotifyRejected", mock.Anything, ownerID, push.TypePhoto, "blurry").Return(nil)

	err := deps.svc.Reject(context.Background(), photoID, "blurry")

	assert.NoError(t, err)
	deps.storage.AssertExpectations(t)
	deps.notifier.AssertExpectations(t)
}

func TestApprovePhoto_AppliesModifications(t *testing.T) {
	deps := newPhotoTestDeps()
	ownerID := uuid.New()
	photoID := uuid.New()

	deps.repo.On("FindByID", mock.Anything, photoID).Return(&Photo{
		BaseModel: common.BaseModel{ID: photoID},
		OwnerID:   ownerID,
		Pending:   true,
	}, nil)

	room := "214B"
	deps.repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Photo) bool {
		return !p.Pending && p.RoomNumber != nil && *p.RoomNumber == "214B"
	})).Return(nil)
	deps.notifier.On("NotifyApproved", mock.Anything, ownerID, push.TypePhoto, photoID).Return(nil)

	approved, err := deps.svc.Approve(context.Background(), photoID, ApprovePhotoRequest{RoomNumber: &room})

	assert.NoError(t, err)
	assert.False(t, approved.Pending)
	deps.repo.AssertExpectations(t)
	deps.notifier.AssertExpectations(t)
}
