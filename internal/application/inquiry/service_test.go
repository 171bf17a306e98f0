package inquiry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carmarket-api/internal/domain"
)

// --- mocks ---

type mockInquiryStore struct{ mock.Mock }

func (m *mockInquiryStore) Put(ctx context.Context, inq *domain.Inquiry) error {
	return m.Called(ctx, inq).Error(0)
}
func (m *mockInquiryStore) Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	args := m.Called(ctx, inquiryID)
	if inq, _ := args.Get(0).(*domain.Inquiry); inq != nil {
		return inq, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockInquiryStore) QueryBySeller(ctx context.Context, sellerID string, limit int, cursor string) ([]domain.Inquiry, string, error) {
	args := m.Called(ctx, sellerID, limit, cursor)
	return args.Get(0).([]domain.Inquiry), args.String(1), args.Error(2)
}
func (m *mockInquiryStore) QueryByCar(ctx context.Context, carID string, limit int, cursor string) ([]domain.Inquiry, string, error) {
	args := m.Called(ctx, carID, limit, cursor)
	return args.Get(0).([]domain.Inquiry), args.String(1), args.Error(2)
}
func (m *mockInquiryStore) MarkResponded(ctx context.Context, inquiryID, response string) error {
	return m.Called(ctx, inquiryID, response).Error(0)
}
func (m *mockInquiryStore) UpdateStatus(ctx context.Context, inquiryID, status string) error {
	return m.Called(ctx, inquiryID, status).Error(0)
}

type mockCarStore struct{ mock.Mock }

func (m *mockCarStore) Get(ctx context.Context, carID string) (*domain.Car, error) {
	args := m.Called(ctx, carID)
	if c, _ := args.Get(0).(*domain.Car); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCarStore) AddToCounter(ctx context.Context, carID, field string, delta int) error {
	return m.Called(ctx, carID, field, delta).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyInquiry(ctx context.Context, inq *domain.Inquiry) {
	m.Called(ctx, inq)
}

// --- helpers ---

func liveCar() *domain.Car {
	return &domain.Car{
		CarID:    "car1",
		SellerID: "seller1",
		Title:    "2020 Maruti Swift",
		Status:   domain.CarStatusApproved,
	}
}

func createReq() domain.CreateInquiryRequest {
	return domain.CreateInquiryRequest{
		Name:    "Bob",
		Phone:   "+15550002222",
		Email:   "bob@example.com",
		Message: "Is the price negotiable?",
	}
}

// --- tests ---

func TestCreate_OnlyApprovedListings(t *testing.T) {
	cars := &mockCarStore{}
	pending := liveCar()
	pending.Status = domain.CarStatusPending
	cars.On("Get", mock.Anything, "car1").Return(pending, nil)

	svc := NewService(ServiceDeps{CarRepo: cars})
	_, err := svc.Create(context.Background(), "car1", "", createReq())

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreate_SellerCannotInquireOwnListing(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(liveCar(), nil)

	svc := NewService(ServiceDeps{CarRepo: cars})
	_, err := svc.Create(context.Background(), "car1", "seller1", createReq())

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_HappyPath(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(liveCar(), nil)
	cars.On("AddToCounter", mock.Anything, "car1", "inquiries_count", 1).Return(nil)
	inquiries := &mockInquiryStore{}
	inquiries.On("Put", mock.Anything, mock.MatchedBy(func(inq *domain.Inquiry) bool {
		return inq.SellerID == "seller1" &&
			inq.BuyerID == "buyer1" &&
			inq.CarTitle == "2020 Maruti Swift" &&
			inq.Status == domain.InquiryStatusNew
	})).Return(nil)
	notifier := &mockNotifier{}
	notifier.On("NotifyInquiry", mock.Anything, mock.Anything).Return()
	mailer := &mockMailer{}
	mailer.On("SendEmail", "ops@example.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{
		InquiryRepo:         inquiries,
		CarRepo:             cars,
		Mailer:              mailer,
		Notifier:            notifier,
		InternalNotifyEmail: "ops@example.com",
	})
	inq, err := svc.Create(context.Background(), "car1", "buyer1", createReq())

	require.NoError(t, err)
	assert.NotEmpty(t, inq.InquiryID)
	cars.AssertExpectations(t)
	inquiries.AssertExpectations(t)
	notifier.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestCreate_CounterFailureDoesNotFailInquiry(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(liveCar(), nil)
	cars.On("AddToCounter", mock.Anything, "car1", "inquiries_count", 1).Return(errors.New("throttled"))
	inquiries := &mockInquiryStore{}
	inquiries.On("Put", mock.Anything, mock.Anything).Return(nil)
	notifier := &mockNotifier{}
	notifier.On("NotifyInquiry", mock.Anything, mock.Anything).Return()

	svc := NewService(ServiceDeps{InquiryRepo: inquiries, CarRepo: cars, Notifier: notifier})
	_, err := svc.Create(context.Background(), "car1", "", createReq())

	require.NoError(t, err)
}

func TestRespond_NotOwner(t *testing.T) {
	inquiries := &mockInquiryStore{}
	inquiries.On("Get", mock.Anything, "inq1").Return(&domain.Inquiry{
		InquiryID: "inq1",
		SellerID:  "seller1",
		Status:    domain.InquiryStatusNew,
	}, nil)

	svc := NewService(ServiceDeps{InquiryRepo: inquiries})
	_, err := svc.Respond(context.Background(), "intruder", "inq1", RespondRequest{Message: "hi"})

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestRespond_AlreadyResponded(t *testing.T) {
	inquiries := &mockInquiryStore{}
	inquiries.On("Get", mock.Anything, "inq1").Return(&domain.Inquiry{
		InquiryID: "inq1",
		SellerID:  "seller1",
		Status:    domain.InquiryStatusResponded,
	}, nil)

	svc := NewService(ServiceDeps{InquiryRepo: inquiries})
	_, err := svc.Respond(context.Background(), "seller1", "inq1", RespondRequest{Message: "hi"})

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRespond_EmailsBuyer(t *testing.T) {
	inquiries := &mockInquiryStore{}
	inquiries.On("Get", mock.Anything, "inq1").Return(&domain.Inquiry{
		InquiryID:  "inq1",
		SellerID:   "seller1",
		BuyerEmail: "bob@example.com",
		CarTitle:   "2020 Maruti Swift",
		Status:     domain.InquiryStatusNew,
	}, nil)
	inquiries.On("MarkResponded", mock.Anything, "inq1", "Yes, slightly").Return(nil)
	mailer := &mockMailer{}
	mailer.On("SendEmail", "bob@example.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{InquiryRepo: inquiries, Mailer: mailer})
	_, err := svc.Respond(context.Background(), "seller1", "inq1", RespondRequest{Message: "Yes, slightly"})

	require.NoError(t, err)
	inquiries.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestMarkSpam_SetsStatus(t *testing.T) {
	inquiries := &mockInquiryStore{}
	inquiries.On("Get", mock.Anything, "inq1").Return(&domain.Inquiry{
		InquiryID: "inq1",
		SellerID:  "seller1",
	}, nil)
	inquiries.On("UpdateStatus", mock.Anything, "inq1", domain.InquiryStatusSpam).Return(nil)

	svc := NewService(ServiceDeps{InquiryRepo: inquiries})
	err := svc.MarkSpam(context.Background(), "seller1", "inq1")

	require.NoError(t, err)
	inquiries.AssertExpectations(t)
}

func TestListForCar_NotOwner(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(liveCar(), nil)

	svc := NewService(ServiceDeps{CarRepo: cars})
	_, err := svc.ListForCar(context.Background(), "intruder", "car1", 10, "")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestListForSeller_ClampsLimit(t *testing.T) {
	inquiries := &mockInquiryStore{}
	inquiries.On("QueryBySeller", mock.Anything, "seller1", defaultPageSize, "").
		Return([]domain.Inquiry{{InquiryID: "inq1"}}, "next", nil)

	svc := NewService(ServiceDeps{InquiryRepo: inquiries})
	result, err := svc.ListForSeller(context.Background(), "seller1", "", 500, "")

	require.NoError(t, err)
	assert.Len(t, result.Inquiries, 1)
	assert.Equal(t, "next", result.NextCursor)
}

func TestListForSeller_StatusFilter(t *testing.T) {
	inquiries := &mockInquiryStore{}
	inquiries.On("QueryBySeller", mock.Anything, "seller1", 10, "").
		Return([]domain.Inquiry{
			{InquiryID: "inq1", Status: domain.InquiryStatusNew},
			{InquiryID: "inq2", Status: domain.InquiryStatusResponded},
			{InquiryID: "inq3", Status: domain.InquiryStatusNew},
		}, "", nil)

	svc := NewService(ServiceDeps{InquiryRepo: inquiries})
	result, err := svc.ListForSeller(context.Background(), "seller1", domain.InquiryStatusNew, 10, "")

	require.NoError(t, err)
	require.Len(t, result.Inquiries, 2)
	assert.Equal(t, "inq1", result.Inquiries[0].InquiryID)
	assert.Equal(t, "inq3", result.Inquiries[1].InquiryID)
}

func TestListForSeller_UnknownStatus(t *testing.T) {
	svc := NewService(ServiceDeps{})
	_, err := svc.ListForSeller(context.Background(), "seller1", "limbo", 10, "")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
