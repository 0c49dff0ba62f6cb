// File: internal/user/service_test.go
package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of the user.Repository interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, usr *User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, usr *User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

func newTestUserService(repo Repository) *ServiceImplementation {
	return NewService(repo, &config.Config{}, zap.NewNop())
}

func firebaseTokenWithClaims(uid string, claims map[string]interface{}) *firebaseauth.Token {
	return &firebaseauth.Token{UID: uid, Claims: claims}
}

func TestGetOrCreateUserFromFirebaseClaims_CreatesNewUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	token := firebaseTokenWithClaims("fb-new-uid", map[string]interface{}{
		"email":          "New.Student@Example.com",
		"email_verified": true,
		"name":           "New Student",
		"picture":        "https://example.com/pic.jpg",
	})

	mockRepo.On("FindByFirebaseUID", mock.Anything, "fb-new-uid").
		Return(nil, common.ErrNotFound.WithDetails("User not found with this Firebase UID."))
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.FirebaseUID == "fb-new-uid" &&
			u.Email != nil && *u.Email == "new.student@example.com" &&
			u.DisplayName != nil && *u.DisplayName == "New Student" &&
			u.IsEmailVerified &&
			u.Role == common.RoleUser &&
			u.LastLoginAt != nil
	})).Return(nil)

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), token)

	require.NoError(t, err)
	assert.True(t, wasCreated)
	require.NotNil(t, usr)
	assert.Equal(t, "fb-new-uid", usr.FirebaseUID)
	require.NotNil(t, usr.Email)
	assert.Equal(t, "new.student@example.com", *usr.Email)
	assert.Equal(t, common.RoleUser, usr.Role)
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateUserFromFirebaseClaims_RefreshesExistingUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	staleEmail := "old@example.com"
	existing := &User{
		BaseModel:       common.BaseModel{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		FirebaseUID:     "fb-existing-uid",
		Email:           &staleEmail,
		IsEmailVerified: false,
		Role:            common.RoleUser,
	}

	token := firebaseTokenWithClaims("fb-existing-uid", map[string]interface{}{
		"email":          "current@example.com",
		"email_verified": true,
		"name":           "Current Name",
	})

	mockRepo.On("FindByFirebaseUID", mock.Anything, "fb-existing-uid").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.ID == existing.ID &&
			u.Email != nil && *u.Email == "current@example.com" &&
			u.DisplayName != nil && *u.DisplayName == "Current Name" &&
			u.IsEmailVerified &&
			u.LastLoginAt != nil
	})).Return(nil)

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), token)

	require.NoError(t, err)
	assert.False(t, wasCreated)
	require.NotNil(t, usr)
	assert.Equal(t, existing.ID, usr.ID)
	require.NotNil(t, usr.Email)
	assert.Equal(t, "current@example.com", *usr.Email)
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateUserFromFirebaseClaims_UpdateFailureIsNonFatal(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	existing := &User{
		BaseModel:   common.BaseModel{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		FirebaseUID: "fb-existing-uid",
		Role:        common.RoleUser,
	}

	token := firebaseTokenWithClaims("fb-existing-uid", map[string]interface{}{})

	mockRepo.On("FindByFirebaseUID", mock.Anything, "fb-existing-uid").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*user.User")).
		Return(errors.New("db write failed"))

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), token)

	require.NoError(t, err)
	assert.False(t, wasCreated)
	require.NotNil(t, usr)
	assert.Equal(t, existing.ID, usr.ID)
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateUserFromFirebaseClaims_RepositoryErrorSurfaces(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	token := firebaseTokenWithClaims("fb-broken-uid", map[string]interface{}{})

	repoErr := errors.New("connection refused")
	mockRepo.On("FindByFirebaseUID", mock.Anything, "fb-broken-uid").Return(nil, repoErr)

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), token)

	require.Error(t, err)
	assert.Nil(t, usr)
	assert.False(t, wasCreated)
	assert.Equal(t, repoErr, err)
	mockRepo.AssertExpectations(t)
}

func TestGetOrCreateUserFromFirebaseClaims_RejectsNilToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	usr, wasCreated, err := service.GetOrCreateUserFromFirebaseClaims(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, usr)
	assert.False(t, wasCreated)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	mockRepo.AssertNotCalled(t, "FindByFirebaseUID")
}

func TestGetUserByID_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	id := uuid.New()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(nil, common.ErrNotFound.WithDetails("User not found with this ID."))

	usr, err := service.GetUserByID(context.Background(), id)

	require.Error(t, err)
	assert.Nil(t, usr)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	mockRepo.AssertExpectations(t)
}
