package push

import (
	"context"
	"fmt"

	"dormview_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender abstracts the FCM transport. Satisfied by firebase.FirebaseService.
type Sender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error)
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// Notifier is the push surface used by feature services. Delivery failures
// are reported as errors; callers log them and carry on, a failed push must
// never fail the operation that triggered it.
type Notifier interface {
	NotifyApproved(ctx context.Context, ownerID uuid.UUID, kind string, contentID uuid.UUID) error
	NotifyRejected(ctx context.Context, ownerID uuid.UUID, kind, reason string) error
	NotifySubmissionPending(ctx context.Context, kind string) error
	NotifyFeedback(ctx context.Context, message string) error
}

// Service combines device registration with push delivery.
type Service interface {
	Notifier
	RegisterDevice(ctx context.Context, userID uuid.UUID, req RegisterDeviceRequest) error
	UnregisterDevice(ctx context.Context, userID uuid.UUID, token string) error
}

type service struct {
	repo       Repository
	sender     Sender
	adminTopic string
	logger     *zap.Logger
}

var _ Service = (*service)(nil)

// NewService creates a new push service.
func NewService(repo Repository, sender Sender, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		sender:     sender,
		adminTopic: cfg.AdminPushTopic,
		logger:     logger.Named("PushService"),
	}
}

func (s *service) RegisterDevice(ctx context.Context, userID uuid.UUID, req RegisterDeviceRequest) error {
	platform := req.Platform
	if platform == "" {
		platform = "unknown"
	}
	token := &DeviceToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: platform,
	}
	if err := s.repo.Upsert(ctx, token); err != nil {
		s.logger.Error("Failed to register device token", zap.Error(err), zap.String("userID", userID.String()))
		return err
	}
	s.logger.Debug("Device token registered", zap.String("userID", userID.String()), zap.String("platform", platform))
	return nil
}

func (s *service) UnregisterDevice(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.DeleteByToken(ctx, userID, token)
}

// NotifyApproved tells a submission owner their content went live. The data
// payload carries the content kind as the type tag plus the content ID so
// the app can deep link straight to it.
func (s *service) NotifyApproved(ctx context.Context, ownerID uuid.UUID, kind string, contentID uuid.UUID) error {
	tokens, err := s.repo.FindTokensByUserID(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.logger.Debug("Owner has no registered devices, skipping approval push", zap.String("ownerID", ownerID.String()))
		return nil
	}

	payload := Payload{Type: kind, ID: contentID.String()}
	title := "Submission approved"
	body := fmt.Sprintf("Your %s submission was approved and is now live.", kind)

	delivered, err := s.sender.SendToTokens(ctx, tokens, title, body, payload.Data())
	if err != nil {
		return err
	}
	s.logger.Info("Approval push sent",
		zap.String("ownerID", ownerID.String()),
		zap.String("kind", kind),
		zap.Int("delivered", delivered),
	)
	return nil
}

// NotifyRejected tells a submission owner their content was removed.
func (s *service) NotifyRejected(ctx context.Context, ownerID uuid.UUID, kind, reason string) error {
	tokens, err := s.repo.FindTokensByUserID(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.logger.Debug("Owner has no registered devices, skipping rejection push", zap.String("ownerID", ownerID.String()))
		return nil
	}

	payload := Payload{Type: TypeReject}
	title := "Submission rejected"
	body := fmt.Sprintf("Your %s submission was not approved.", kind)
	if reason != "" {
		body = fmt.Sprintf("Your %s submission was not approved: %s", kind, reason)
	}

	delivered, err := s.sender.SendToTokens(ctx, tokens, title, body, payload.Data())
	if err != nil {
		return err
	}
	s.logger.Info("Rejection push sent",
		zap.String("ownerID", ownerID.String()),
		zap.String("kind", kind),
		zap.Int("delivered", delivered),
	)
	return nil
}

// NotifySubmissionPending tells the admin topic that new content is waiting
// for review. The type tag is "request-<kind>".
func (s *service) NotifySubmissionPending(ctx context.Context, kind string) error {
	payload := Payload{Type: RequestTypePrefix + kind}
	title := "New submission pending"
	body := fmt.Sprintf("A new %s submission is waiting for review.", kind)
	return s.sender.SendToTopic(ctx, s.adminTopic, title, body, payload.Data())
}

// NotifyFeedback forwards user feedback to the admin topic.
func (s *service) NotifyFeedback(ctx context.Context, message string) error {
	payload := Payload{Type: TypeFeedback}
	return s.sender.SendToTopic(ctx, s.adminTopic, "New feedback", message, payload.Data())
}
