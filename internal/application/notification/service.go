package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/id"
)

const defaultPageSize = 20

type ListResult struct {
	Notifications []domain.Notification `json:"notifications"`
	NextCursor    string                `json:"next_cursor,omitempty"`
}

type NotificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int, cursor string) ([]domain.Notification, string, error)
	MarkRead(ctx context.Context, notificationID string) error
}

type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int, cursor string) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID string) error

	NotifyListingStatus(ctx context.Context, car *domain.Car, action, reason string)
	NotifyInquiry(ctx context.Context, inq *domain.Inquiry)
}

type ServiceDeps struct {
	NotificationRepo NotificationStore
	UserRepo         UserStore
	Mailer           Mailer
	SMSSender        SMSSender
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) List(ctx context.Context, userID string, unreadOnly bool, limit int, cursor string) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	notifications, next, err := s.deps.NotificationRepo.ListByUser(ctx, userID, unreadOnly, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &ListResult{Notifications: notifications, NextCursor: next}, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds and
// keeps the original read_at.
func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.deps.NotificationRepo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("not your notification: %w", domain.ErrForbidden)
	}
	if n.Read {
		// Already read; the stored read_at stays as it is.
		return nil
	}
	return s.deps.NotificationRepo.MarkRead(ctx, notificationID)
}

// NotifyListingStatus records an in-app notification for the seller and
// fans out over the channels their preferences allow. Delivery failures are
// logged, never surfaced: a review decision must not fail on a mail server.
func (s *service) NotifyListingStatus(ctx context.Context, car *domain.Car, action, reason string) {
	var title, msg, typ string
	switch action {
	case domain.ReviewActionApprove:
		typ = domain.NotificationTypeListingStatus
		title = "Your listing is live"
		msg = fmt.Sprintf("Your listing %q has been approved and is now visible to buyers.", car.Title)
	case domain.ReviewActionReject:
		typ = domain.NotificationTypeListingStatus
		title = "Your listing was not approved"
		msg = fmt.Sprintf("Your listing %q was rejected. Reason: %s", car.Title, reason)
	case domain.ReviewActionRequestChanges:
		typ = domain.NotificationTypeListingChanges
		title = "Changes requested on your listing"
		msg = fmt.Sprintf("Your listing %q needs changes before it can go live: %s", car.Title, reason)
	default:
		return
	}
	s.deliver(ctx, car.SellerID, typ, title, msg)
}

func (s *service) NotifyInquiry(ctx context.Context, inq *domain.Inquiry) {
	title := "New inquiry on your listing"
	msg := fmt.Sprintf("%s is interested in %q: %s", inq.BuyerName, inq.CarTitle, inq.Message)
	s.deliver(ctx, inq.SellerID, domain.NotificationTypeInquiry, title, msg)
}

func (s *service) deliver(ctx context.Context, userID, typ, title, msg string) {
	u, err := s.deps.UserRepo.Get(ctx, userID)
	if err != nil {
		slog.Warn("notification target not found", "user_id", userID, "err", err)
		return
	}
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Type:           typ,
		Title:          title,
		Message:        msg,
		ViaEmail:       u.EmailAlerts && u.Email != "",
		ViaSMS:         u.SMSAlerts && u.Phone != "",
		ViaPush:        u.PushAlerts,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.deps.NotificationRepo.Put(ctx, n); err != nil {
		slog.Warn("failed to store notification", "user_id", userID, "err", err)
		return
	}
	if n.ViaEmail && s.deps.Mailer != nil {
		if err := s.deps.Mailer.SendEmail(u.Email, title, msg); err != nil {
			slog.Warn("failed to send notification email", "user_id", userID, "err", err)
		}
	}
	if n.ViaSMS && s.deps.SMSSender != nil {
		if err := s.deps.SMSSender.SendSMS(ctx, u.Phone, title+": "+msg); err != nil {
			slog.Warn("failed to send notification sms", "user_id", userID, "err", err)
		}
	}
}
