package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/id"
)

const (
	defaultPageSize = 20

	// BulkLimit caps how many listings one bulk call may touch.
	BulkLimit = 100
)

type ReviewRequest struct {
	Action       string `json:"action" validate:"required"`
	Reason       string `json:"reason"`
	Feedback     string `json:"feedback"`
	QualityScore int    `json:"quality_score" validate:"gte=0,lte=100"`
	AdminNotes   string `json:"admin_notes"`
}

// AdminUpdateRequest patches listing fields directly, outside the review
// state machine. Nil pointers leave the field untouched.
type AdminUpdateRequest struct {
	Status       *string `json:"status"`
	Verified     *bool   `json:"verified"`
	Featured     *bool   `json:"featured"`
	QualityScore *int    `json:"quality_score" validate:"omitempty,gte=0,lte=100"`
	AdminNotes   *string `json:"admin_notes"`
}

type BulkReviewRequest struct {
	CarIDs []string `json:"car_ids" validate:"required,min=1"`
	Action string   `json:"action" validate:"required"`
	Reason string   `json:"reason"`
}

type BulkDetail struct {
	CarID string `json:"car_id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkResult reports partial success: each listing is judged independently
// and one failure never aborts the rest.
type BulkResult struct {
	Processed  int          `json:"processed"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Details    []BulkDetail `json:"details"`
}

type Dashboard struct {
	PendingListings int `json:"pending_listings"`
	QueuePending    int `json:"queue_pending"`
	QueueInReview   int `json:"queue_in_review"`
	ApprovedToday   int `json:"approved_today"`
}

type QueueResult struct {
	Items      []domain.ModerationQueueItem `json:"items"`
	NextCursor string                       `json:"next_cursor,omitempty"`
}

type PendingResult struct {
	Cars       []domain.Car `json:"cars"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type ActivityResult struct {
	Activities []domain.AdminActivity `json:"activities"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

type CarStore interface {
	Get(ctx context.Context, carID string) (*domain.Car, error)
	Update(ctx context.Context, carID string, updates map[string]interface{}) error
	QueryByStatus(ctx context.Context, status string, filter domain.CarFilter, limit int, cursor string) ([]domain.Car, string, error)
}

type ReviewStore interface {
	Put(ctx context.Context, r *domain.CarReview) error
	ListByCar(ctx context.Context, carID string) ([]domain.CarReview, error)
}

type QueueStore interface {
	QueryByStatus(ctx context.Context, status string, limit int, cursor string) ([]domain.ModerationQueueItem, string, error)
	CompleteByTarget(ctx context.Context, kind domain.ModerationItemKind, targetID, adminID string) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

type ActivityStore interface {
	Put(ctx context.Context, a *domain.AdminActivity) error
	QueryByAdmin(ctx context.Context, adminID string, limit int, cursor string) ([]domain.AdminActivity, string, error)
}

type Taxonomy interface {
	AdjustCityCount(ctx context.Context, name, state string, delta int) error
}

type Notifier interface {
	NotifyListingStatus(ctx context.Context, car *domain.Car, action, reason string)
}

type Service interface {
	Review(ctx context.Context, adminID, carID string, req ReviewRequest, clientIP, userAgent string) (*domain.Car, error)
	BulkReview(ctx context.Context, adminID string, req BulkReviewRequest, clientIP, userAgent string) (*BulkResult, error)
	Listings(ctx context.Context, status string, limit int, cursor string) (*PendingResult, error)
	GetCar(ctx context.Context, carID string) (*domain.Car, error)
	AdminUpdate(ctx context.Context, adminID, carID string, req AdminUpdateRequest, clientIP, userAgent string) (*domain.Car, error)
	Queue(ctx context.Context, status string, limit int, cursor string) (*QueueResult, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
	History(ctx context.Context, carID string) ([]domain.CarReview, error)
	Activities(ctx context.Context, adminID string, limit int, cursor string) (*ActivityResult, error)
}

type ServiceDeps struct {
	CarRepo      CarStore
	ReviewRepo   ReviewStore
	QueueRepo    QueueStore
	ActivityRepo ActivityStore
	Taxonomy     Taxonomy
	Notifier     Notifier
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) Review(ctx context.Context, adminID, carID string, req ReviewRequest, clientIP, userAgent string) (*domain.Car, error) {
	if !domain.ValidReviewAction(req.Action) {
		return nil, fmt.Errorf("unknown action %q: %w", req.Action, domain.ErrBadRequest)
	}
	if (req.Action == domain.ReviewActionReject || req.Action == domain.ReviewActionRequestChanges) && req.Reason == "" {
		return nil, fmt.Errorf("reason required for %s: %w", req.Action, domain.ErrBadRequest)
	}

	car, err := s.deps.CarRepo.Get(ctx, carID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"reviewed_by": adminID,
		"reviewed_at": now,
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}

	switch req.Action {
	case domain.ReviewActionApprove:
		if car.Status != domain.CarStatusPending {
			return nil, fmt.Errorf("only pending listings can be approved: %w", domain.ErrConflict)
		}
		updates["status"] = domain.CarStatusApproved
		updates["verified"] = true
		updates["approved_at"] = now
		updates["rejection_reason"] = ""
		if req.QualityScore > 0 {
			updates["quality_score"] = req.QualityScore
		}
	case domain.ReviewActionReject:
		if car.Status != domain.CarStatusPending {
			return nil, fmt.Errorf("only pending listings can be rejected: %w", domain.ErrConflict)
		}
		updates["status"] = domain.CarStatusRejected
		updates["rejection_reason"] = req.Reason
	case domain.ReviewActionRequestChanges:
		// Status stays pending; the feedback travels on the review record
		// and the seller notification.
		if car.Status != domain.CarStatusPending {
			return nil, fmt.Errorf("only pending listings can be sent back: %w", domain.ErrConflict)
		}
	case domain.ReviewActionFeature:
		if car.Status != domain.CarStatusApproved {
			return nil, fmt.Errorf("only live listings can be featured: %w", domain.ErrConflict)
		}
		updates["featured"] = true
	case domain.ReviewActionUnfeature:
		if car.Status != domain.CarStatusApproved {
			return nil, fmt.Errorf("only live listings can be unfeatured: %w", domain.ErrConflict)
		}
		updates["featured"] = false
	}

	if err := s.deps.CarRepo.Update(ctx, carID, updates); err != nil {
		return nil, err
	}

	if err := s.deps.ReviewRepo.Put(ctx, &domain.CarReview{
		ReviewID:     id.New(),
		CarID:        carID,
		AdminID:      adminID,
		Action:       req.Action,
		Reason:       req.Reason,
		Feedback:     req.Feedback,
		QualityScore: req.QualityScore,
		CreatedAt:    now,
	}); err != nil {
		slog.Warn("failed to record review", "car_id", carID, "err", err)
	}

	if req.Action == domain.ReviewActionApprove {
		if err := s.deps.Taxonomy.AdjustCityCount(ctx, car.CityName, car.CityState, 1); err != nil {
			slog.Warn("failed to adjust city car count", "city", car.CityName, "err", err)
		}
	}
	if isDecision(req.Action) {
		if err := s.deps.QueueRepo.CompleteByTarget(ctx, domain.ModerationItemListing, carID, adminID); err != nil {
			slog.Warn("failed to close queue items", "car_id", carID, "err", err)
		}
		s.deps.Notifier.NotifyListingStatus(ctx, car, req.Action, req.Reason)
	}

	s.logActivity(ctx, adminID, req.Action, carID, clientIP, userAgent)

	return s.deps.CarRepo.Get(ctx, carID)
}

// BulkReview applies one action across up to BulkLimit listings. Failures are
// collected per listing; processing always runs to the end of the batch.
func (s *service) BulkReview(ctx context.Context, adminID string, req BulkReviewRequest, clientIP, userAgent string) (*BulkResult, error) {
	if !domain.ValidReviewAction(req.Action) {
		return nil, fmt.Errorf("unknown action %q: %w", req.Action, domain.ErrBadRequest)
	}
	if len(req.CarIDs) > BulkLimit {
		return nil, fmt.Errorf("at most %d listings per bulk action: %w", BulkLimit, domain.ErrBadRequest)
	}

	result := &BulkResult{Details: make([]BulkDetail, 0, len(req.CarIDs))}
	for _, carID := range req.CarIDs {
		result.Processed++
		_, err := s.Review(ctx, adminID, carID, ReviewRequest{
			Action: req.Action,
			Reason: req.Reason,
		}, clientIP, userAgent)
		detail := BulkDetail{CarID: carID, OK: err == nil}
		if err != nil {
			detail.Error = err.Error()
			result.Failed++
		} else {
			result.Successful++
		}
		result.Details = append(result.Details, detail)
	}

	// One summary audit entry for the whole batch, on top of the per-listing
	// entries each review writes.
	if err := s.deps.ActivityRepo.Put(ctx, &domain.AdminActivity{
		ActivityID:   id.New(),
		AdminID:      adminID,
		ActivityType: "listing_bulk_" + req.Action,
		Description:  fmt.Sprintf("bulk %s: %d processed, %d failed", req.Action, result.Processed, result.Failed),
		IPAddress:    clientIP,
		UserAgent:    userAgent,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to record bulk activity", "admin_id", adminID, "err", err)
	}
	return result, nil
}

func (s *service) Listings(ctx context.Context, status string, limit int, cursor string) (*PendingResult, error) {
	if status == "" {
		status = domain.CarStatusPending
	}
	if !domain.ValidCarStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrBadRequest)
	}
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	cars, next, err := s.deps.CarRepo.QueryByStatus(ctx, status, domain.CarFilter{}, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &PendingResult{Cars: cars, NextCursor: next}, nil
}

func (s *service) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	return s.deps.CarRepo.Get(ctx, carID)
}

func (s *service) AdminUpdate(ctx context.Context, adminID, carID string, req AdminUpdateRequest, clientIP, userAgent string) (*domain.Car, error) {
	if _, err := s.deps.CarRepo.Get(ctx, carID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !domain.ValidCarStatus(*req.Status) {
			return nil, fmt.Errorf("unknown status %q: %w", *req.Status, domain.ErrBadRequest)
		}
		updates["status"] = *req.Status
	}
	if req.Verified != nil {
		updates["verified"] = *req.Verified
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.QualityScore != nil {
		updates["quality_score"] = *req.QualityScore
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	updates["reviewed_by"] = adminID
	updates["reviewed_at"] = time.Now().UTC()

	if err := s.deps.CarRepo.Update(ctx, carID, updates); err != nil {
		return nil, err
	}
	s.logActivity(ctx, adminID, "update", carID, clientIP, userAgent)
	return s.deps.CarRepo.Get(ctx, carID)
}

func (s *service) Activities(ctx context.Context, adminID string, limit int, cursor string) (*ActivityResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	activities, next, err := s.deps.ActivityRepo.QueryByAdmin(ctx, adminID, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &ActivityResult{Activities: activities, NextCursor: next}, nil
}

func (s *service) Queue(ctx context.Context, status string, limit int, cursor string) (*QueueResult, error) {
	if status == "" {
		status = domain.ModerationStatusPending
	}
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	items, next, err := s.deps.QueueRepo.QueryByStatus(ctx, status, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &QueueResult{Items: items, NextCursor: next}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error
	if d.QueuePending, err = s.deps.QueueRepo.CountByStatus(ctx, domain.ModerationStatusPending); err != nil {
		return nil, err
	}
	if d.QueueInReview, err = s.deps.QueueRepo.CountByStatus(ctx, domain.ModerationStatusInReview); err != nil {
		return nil, err
	}

	// Pending listings and today's approvals come from the cars index.
	cursor := ""
	for {
		cars, next, err := s.deps.CarRepo.QueryByStatus(ctx, domain.CarStatusPending, domain.CarFilter{}, 100, cursor)
		if err != nil {
			return nil, err
		}
		d.PendingListings += len(cars)
		if next == "" {
			break
		}
		cursor = next
	}
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	cursor = ""
	for {
		cars, next, err := s.deps.CarRepo.QueryByStatus(ctx, domain.CarStatusApproved, domain.CarFilter{}, 100, cursor)
		if err != nil {
			return nil, err
		}
		done := false
		for _, c := range cars {
			if c.ApprovedAt != nil && c.ApprovedAt.After(midnight) {
				d.ApprovedToday++
			}
			if c.CreatedAt.Before(midnight) {
				// Index is newest-first; older rows cannot be approved today.
				done = true
			}
		}
		if next == "" || done {
			break
		}
		cursor = next
	}
	return d, nil
}

func (s *service) History(ctx context.Context, carID string) ([]domain.CarReview, error) {
	return s.deps.ReviewRepo.ListByCar(ctx, carID)
}

func (s *service) logActivity(ctx context.Context, adminID, action, carID, clientIP, userAgent string) {
	if err := s.deps.ActivityRepo.Put(ctx, &domain.AdminActivity{
		ActivityID:   id.New(),
		AdminID:      adminID,
		ActivityType: "listing_" + action,
		Description:  fmt.Sprintf("%s listing %s", action, carID),
		AffectedCar:  carID,
		IPAddress:    clientIP,
		UserAgent:    userAgent,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to record admin activity", "admin_id", adminID, "err", err)
	}
}

func isDecision(action string) bool {
	switch action {
	case domain.ReviewActionApprove, domain.ReviewActionReject, domain.ReviewActionRequestChanges:
		return true
	}
	return false
}
