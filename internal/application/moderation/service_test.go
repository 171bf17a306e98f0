package moderation

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

type mockCarStore struct{ mock.Mock }

func (m *mockCarStore) Get(ctx context.Context, carID string) (*domain.Car, error) {
	args := m.Called(ctx, carID)
	if c, _ := args.Get(0).(*domain.Car); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCarStore) Update(ctx context.Context, carID string, updates map[string]interface{}) error {
	return m.Called(ctx, carID, updates).Error(0)
}
func (m *mockCarStore) QueryByStatus(ctx context.Context, status string, filter domain.CarFilter, limit int, cursor string) ([]domain.Car, string, error) {
	args := m.Called(ctx, status, filter, limit, cursor)
	return args.Get(0).([]domain.Car), args.String(1), args.Error(2)
}

type mockReviewStore struct{ mock.Mock }

func (m *mockReviewStore) Put(ctx context.Context, r *domain.CarReview) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockReviewStore) ListByCar(ctx context.Context, carID string) ([]domain.CarReview, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).([]domain.CarReview), args.Error(1)
}

type mockQueueStore struct{ mock.Mock }

func (m *mockQueueStore) QueryByStatus(ctx context.Context, status string, limit int, cursor string) ([]domain.ModerationQueueItem, string, error) {
	args := m.Called(ctx, status, limit, cursor)
	return args.Get(0).([]domain.ModerationQueueItem), args.String(1), args.Error(2)
}
func (m *mockQueueStore) CompleteByTarget(ctx context.Context, kind domain.ModerationItemKind, targetID, adminID string) error {
	return m.Called(ctx, kind, targetID, adminID).Error(0)
}
func (m *mockQueueStore) CountByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type mockActivityStore struct{ mock.Mock }

func (m *mockActivityStore) Put(ctx context.Context, a *domain.AdminActivity) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockActivityStore) QueryByAdmin(ctx context.Context, adminID string, limit int, cursor string) ([]domain.AdminActivity, string, error) {
	args := m.Called(ctx, adminID, limit, cursor)
	return args.Get(0).([]domain.AdminActivity), args.String(1), args.Error(2)
}

type mockTaxonomy struct{ mock.Mock }

func (m *mockTaxonomy) AdjustCityCount(ctx context.Context, name, state string, delta int) error {
	return m.Called(ctx, name, state, delta).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyListingStatus(ctx context.Context, car *domain.Car, action, reason string) {
	m.Called(ctx, car, action, reason)
}

// --- helpers ---

func pendingCar() *domain.Car {
	return &domain.Car{
		CarID:     "car1",
		SellerID:  "u1",
		Status:    domain.CarStatusPending,
		CityName:  "Pune",
		CityState: "MH",
	}
}

func fullDeps(cars *mockCarStore) ServiceDeps {
	reviews := &mockReviewStore{}
	reviews.On("Put", mock.Anything, mock.Anything).Return(nil)
	queue := &mockQueueStore{}
	queue.On("CompleteByTarget", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	activities := &mockActivityStore{}
	activities.On("Put", mock.Anything, mock.Anything).Return(nil)
	tax := &mockTaxonomy{}
	tax.On("AdjustCityCount", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifier := &mockNotifier{}
	notifier.On("NotifyListingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	return ServiceDeps{
		CarRepo:      cars,
		ReviewRepo:   reviews,
		QueueRepo:    queue,
		ActivityRepo: activities,
		Taxonomy:     tax,
		Notifier:     notifier,
	}
}

// --- Review tests ---

func TestReview_UnknownAction(t *testing.T) {
	svc := NewService(ServiceDeps{})
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{Action: "promote"}, "ip", "ua")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestReview_RejectRequiresReason(t *testing.T) {
	svc := NewService(ServiceDeps{})
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{Action: domain.ReviewActionReject}, "ip", "ua")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestReview_ApproveRequiresPending(t *testing.T) {
	cars := &mockCarStore{}
	sold := pendingCar()
	sold.Status = domain.CarStatusSold
	cars.On("Get", mock.Anything, "car1").Return(sold, nil)

	svc := NewService(fullDeps(cars))
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{Action: domain.ReviewActionApprove}, "ip", "ua")

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestReview_ApproveHappyPath(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)
	cars.On("Update", mock.Anything, "car1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.CarStatusApproved &&
			u["verified"] == true &&
			u["approved_at"] != nil &&
			u["reviewed_by"] == "a1"
	})).Return(nil)

	deps := fullDeps(cars)
	svc := NewService(deps)
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{Action: domain.ReviewActionApprove}, "ip", "ua")

	require.NoError(t, err)
	cars.AssertExpectations(t)
	deps.Taxonomy.(*mockTaxonomy).AssertCalled(t, "AdjustCityCount", mock.Anything, "Pune", "MH", 1)
	deps.QueueRepo.(*mockQueueStore).AssertCalled(t, "CompleteByTarget", mock.Anything, domain.ModerationItemListing, "car1", "a1")
	deps.Notifier.(*mockNotifier).AssertCalled(t, "NotifyListingStatus", mock.Anything, mock.Anything, domain.ReviewActionApprove, "")
}

func TestReview_RejectStoresReason(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)
	cars.On("Update", mock.Anything, "car1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.CarStatusRejected && u["rejection_reason"] == "blurry photos"
	})).Return(nil)

	deps := fullDeps(cars)
	svc := NewService(deps)
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{
		Action: domain.ReviewActionReject,
		Reason: "blurry photos",
	}, "ip", "ua")

	require.NoError(t, err)
	deps.Taxonomy.(*mockTaxonomy).AssertNotCalled(t, "AdjustCityCount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_RequestChangesKeepsStatusPending(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)
	cars.On("Update", mock.Anything, "car1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, touchesStatus := u["status"]
		return !touchesStatus && u["reviewed_by"] == "a1"
	})).Return(nil)

	deps := fullDeps(cars)
	svc := NewService(deps)
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{
		Action: domain.ReviewActionRequestChanges,
		Reason: "add interior photos",
	}, "ip", "ua")

	require.NoError(t, err)
	cars.AssertExpectations(t)
	deps.Notifier.(*mockNotifier).AssertCalled(t, "NotifyListingStatus", mock.Anything, mock.Anything, domain.ReviewActionRequestChanges, "add interior photos")
}

func TestReview_FeatureRequiresApproved(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)

	svc := NewService(fullDeps(cars))
	_, err := svc.Review(context.Background(), "a1", "car1", ReviewRequest{Action: domain.ReviewActionFeature}, "ip", "ua")

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- BulkReview tests ---

func TestBulkReview_LimitExceeded(t *testing.T) {
	ids := make([]string, BulkLimit+1)
	for i := range ids {
		ids[i] = "car"
	}

	svc := NewService(ServiceDeps{})
	_, err := svc.BulkReview(context.Background(), "a1", BulkReviewRequest{CarIDs: ids, Action: domain.ReviewActionApprove}, "ip", "ua")

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestBulkReview_PartialFailure(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "good").Return(pendingCar(), nil)
	cars.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	cars.On("Update", mock.Anything, "good", mock.Anything).Return(nil)

	svc := NewService(fullDeps(cars))
	result, err := svc.BulkReview(context.Background(), "a1", BulkReviewRequest{
		CarIDs: []string{"good", "missing"},
		Action: domain.ReviewActionApprove,
	}, "ip", "ua")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 2)
	assert.True(t, result.Details[0].OK)
	assert.False(t, result.Details[1].OK)
	assert.NotEmpty(t, result.Details[1].Error)
}

// --- AdminUpdate tests ---

func TestAdminUpdate_NoFields(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)

	svc := NewService(fullDeps(cars))
	_, err := svc.AdminUpdate(context.Background(), "a1", "car1", AdminUpdateRequest{}, "ip", "ua")

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestAdminUpdate_PatchesFields(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)
	cars.On("Update", mock.Anything, "car1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["featured"] == true && u["quality_score"] == 85
	})).Return(nil)

	deps := fullDeps(cars)
	svc := NewService(deps)
	featured := true
	score := 85
	_, err := svc.AdminUpdate(context.Background(), "a1", "car1", AdminUpdateRequest{
		Featured:     &featured,
		QualityScore: &score,
	}, "ip", "ua")

	require.NoError(t, err)
	cars.AssertExpectations(t)
}

func TestAdminUpdate_RejectsUnknownStatus(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("Get", mock.Anything, "car1").Return(pendingCar(), nil)

	svc := NewService(fullDeps(cars))
	status := "vanished"
	_, err := svc.AdminUpdate(context.Background(), "a1", "car1", AdminUpdateRequest{Status: &status}, "ip", "ua")

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Listings / Dashboard tests ---

func TestListings_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(ServiceDeps{})
	_, err := svc.Listings(context.Background(), "limbo", 10, "")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestListings_DefaultsToPending(t *testing.T) {
	cars := &mockCarStore{}
	cars.On("QueryByStatus", mock.Anything, domain.CarStatusPending, domain.CarFilter{}, 10, "").
		Return([]domain.Car{*pendingCar()}, "", nil)

	svc := NewService(ServiceDeps{CarRepo: cars})
	result, err := svc.Listings(context.Background(), "", 10, "")

	require.NoError(t, err)
	assert.Len(t, result.Cars, 1)
}

func TestDashboard_Counts(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.Add(-36 * time.Hour)
	cars := &mockCarStore{}
	queue := &mockQueueStore{}
	queue.On("CountByStatus", mock.Anything, domain.ModerationStatusPending).Return(4, nil)
	queue.On("CountByStatus", mock.Anything, domain.ModerationStatusInReview).Return(1, nil)
	cars.On("QueryByStatus", mock.Anything, domain.CarStatusPending, domain.CarFilter{}, 100, "").
		Return([]domain.Car{*pendingCar(), *pendingCar()}, "", nil)
	cars.On("QueryByStatus", mock.Anything, domain.CarStatusApproved, domain.CarFilter{}, 100, "").
		Return([]domain.Car{
			{CarID: "c1", CreatedAt: now, ApprovedAt: &now},
			{CarID: "c2", CreatedAt: yesterday, ApprovedAt: &yesterday},
		}, "", nil)

	svc := NewService(ServiceDeps{CarRepo: cars, QueueRepo: queue})
	d, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, d.PendingListings)
	assert.Equal(t, 4, d.QueuePending)
	assert.Equal(t, 1, d.QueueInReview)
	assert.Equal(t, 1, d.ApprovedToday)
}
