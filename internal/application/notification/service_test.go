package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carmarket-api/internal/domain"
)

// --- mocks ---

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int, cursor string) ([]domain.Notification, string, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, cursor)
	return args.Get(0).([]domain.Notification), args.String(1), args.Error(2)
}
func (m *mockNotificationStore) MarkRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

// --- tests ---

func TestMarkRead_NotOwner(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1",
		UserID:         "u1",
	}, nil)

	svc := NewService(ServiceDeps{NotificationRepo: store})
	err := svc.MarkRead(context.Background(), "intruder", "n1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	store.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestMarkRead_Owner(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1",
		UserID:         "u1",
	}, nil)
	store.On("MarkRead", mock.Anything, "n1").Return(nil)

	svc := NewService(ServiceDeps{NotificationRepo: store})
	err := svc.MarkRead(context.Background(), "u1", "n1")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestMarkRead_AlreadyReadIsNoOp(t *testing.T) {
	readAt := time.Now().Add(-time.Hour)
	store := &mockNotificationStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1",
		UserID:         "u1",
		Read:           true,
		ReadAt:         &readAt,
	}, nil)

	svc := NewService(ServiceDeps{NotificationRepo: store})
	err := svc.MarkRead(context.Background(), "u1", "n1")

	require.NoError(t, err)
	store.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestNotifyListingStatus_ApproveFansOut(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "seller1").Return(&domain.User{
		UserID:      "seller1",
		Email:       "seller@example.com",
		Phone:       "+15550001111",
		EmailAlerts: true,
		SMSAlerts:   true,
	}, nil)
	store := &mockNotificationStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "seller1" &&
			n.Type == domain.NotificationTypeListingStatus &&
			n.ViaEmail && n.ViaSMS
	})).Return(nil)
	mailer := &mockMailer{}
	mailer.On("SendEmail", "seller@example.com", "Your listing is live", mock.Anything).Return(nil)
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, "+15550001111", mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{
		NotificationRepo: store,
		UserRepo:         users,
		Mailer:           mailer,
		SMSSender:        sms,
	})
	svc.NotifyListingStatus(context.Background(), &domain.Car{
		SellerID: "seller1",
		Title:    "2020 Maruti Swift",
	}, domain.ReviewActionApprove, "")

	store.AssertExpectations(t)
	mailer.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestNotifyListingStatus_RespectsChannelPreferences(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "seller1").Return(&domain.User{
		UserID: "seller1",
		Email:  "seller@example.com",
		Phone:  "+15550001111",
	}, nil)
	store := &mockNotificationStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return !n.ViaEmail && !n.ViaSMS
	})).Return(nil)
	mailer := &mockMailer{}
	sms := &mockSMSSender{}

	svc := NewService(ServiceDeps{
		NotificationRepo: store,
		UserRepo:         users,
		Mailer:           mailer,
		SMSSender:        sms,
	})
	svc.NotifyListingStatus(context.Background(), &domain.Car{SellerID: "seller1", Title: "t"}, domain.ReviewActionReject, "bad photos")

	store.AssertExpectations(t)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyListingStatus_UnknownActionIsIgnored(t *testing.T) {
	store := &mockNotificationStore{}

	svc := NewService(ServiceDeps{NotificationRepo: store})
	svc.NotifyListingStatus(context.Background(), &domain.Car{SellerID: "seller1"}, "feature", "")

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestNotifyInquiry_EmailFailureIsSwallowed(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "seller1").Return(&domain.User{
		UserID:      "seller1",
		Email:       "seller@example.com",
		EmailAlerts: true,
	}, nil)
	store := &mockNotificationStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := NewService(ServiceDeps{NotificationRepo: store, UserRepo: users, Mailer: mailer})
	svc.NotifyInquiry(context.Background(), &domain.Inquiry{
		SellerID:  "seller1",
		BuyerName: "Bob",
		CarTitle:  "2020 Maruti Swift",
		Message:   "still available?",
	})

	store.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestList_ClampsLimit(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("ListByUser", mock.Anything, "u1", true, defaultPageSize, "").
		Return([]domain.Notification{{NotificationID: "n1"}}, "", nil)

	svc := NewService(ServiceDeps{NotificationRepo: store})
	result, err := svc.List(context.Background(), "u1", true, -1, "")

	require.NoError(t, err)
	assert.Len(t, result.Notifications, 1)
}
