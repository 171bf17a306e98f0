package inquiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/id"
)

const defaultPageSize = 20

type RespondRequest struct {
	Message string `json:"message" validate:"required"`
}

type ListResult struct {
	Inquiries  []domain.Inquiry `json:"inquiries"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type InquiryStore interface {
	Put(ctx context.Context, inq *domain.Inquiry) error
	Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error)
	QueryBySeller(ctx context.Context, sellerID string, limit int, cursor string) ([]domain.Inquiry, string, error)
	QueryByCar(ctx context.Context, carID string, limit int, cursor string) ([]domain.Inquiry, string, error)
	MarkResponded(ctx context.Context, inquiryID, response string) error
	UpdateStatus(ctx context.Context, inquiryID, status string) error
}

type CarStore interface {
	Get(ctx context.Context, carID string) (*domain.Car, error)
	AddToCounter(ctx context.Context, carID, field string, delta int) error
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type Notifier interface {
	NotifyInquiry(ctx context.Context, inq *domain.Inquiry)
}

type Service interface {
	Create(ctx context.Context, carID, buyerID string, req domain.CreateInquiryRequest) (*domain.Inquiry, error)
	Respond(ctx context.Context, sellerID, inquiryID string, req RespondRequest) (*domain.Inquiry, error)
	MarkSpam(ctx context.Context, sellerID, inquiryID string) error
	ListForSeller(ctx context.Context, sellerID, status string, limit int, cursor string) (*ListResult, error)
	ListForCar(ctx context.Context, sellerID, carID string, limit int, cursor string) (*ListResult, error)
}

type ServiceDeps struct {
	InquiryRepo InquiryStore
	CarRepo     CarStore
	Mailer      Mailer
	Notifier    Notifier

	// InternalNotifyEmail receives a copy of every inquiry for the ops team.
	InternalNotifyEmail string
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

// Create records a buyer inquiry against a live listing. buyerID is empty for
// unregistered buyers; their contact details are kept on the inquiry itself.
func (s *service) Create(ctx context.Context, carID, buyerID string, req domain.CreateInquiryRequest) (*domain.Inquiry, error) {
	car, err := s.deps.CarRepo.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.Status != domain.CarStatusApproved {
		return nil, fmt.Errorf("listing is not accepting inquiries: %w", domain.ErrConflict)
	}
	if buyerID != "" && buyerID == car.SellerID {
		return nil, fmt.Errorf("cannot inquire about your own listing: %w", domain.ErrBadRequest)
	}

	inq := &domain.Inquiry{
		InquiryID:  id.New(),
		CarID:      carID,
		CarTitle:   car.Title,
		SellerID:   car.SellerID,
		BuyerID:    buyerID,
		BuyerName:  req.Name,
		BuyerPhone: req.Phone,
		BuyerEmail: req.Email,
		Message:    req.Message,
		Status:     domain.InquiryStatusNew,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.deps.InquiryRepo.Put(ctx, inq); err != nil {
		return nil, err
	}

	if err := s.deps.CarRepo.AddToCounter(ctx, carID, "inquiries_count", 1); err != nil {
		slog.Warn("failed to count inquiry", "car_id", carID, "err", err)
	}
	s.deps.Notifier.NotifyInquiry(ctx, inq)
	if s.deps.Mailer != nil && s.deps.InternalNotifyEmail != "" {
		body := fmt.Sprintf("Car: %s\nFrom: %s (%s)\n\n%s", car.Title, req.Name, req.Phone, req.Message)
		if err := s.deps.Mailer.SendEmail(s.deps.InternalNotifyEmail, "New inquiry: "+car.Title, body); err != nil {
			slog.Warn("failed to send internal inquiry email", "car_id", carID, "err", err)
		}
	}

	return inq, nil
}

func (s *service) Respond(ctx context.Context, sellerID, inquiryID string, req RespondRequest) (*domain.Inquiry, error) {
	inq, err := s.ownedInquiry(ctx, sellerID, inquiryID)
	if err != nil {
		return nil, err
	}
	if inq.Status != domain.InquiryStatusNew {
		return nil, fmt.Errorf("inquiry is not open for a response: %w", domain.ErrConflict)
	}
	if err := s.deps.InquiryRepo.MarkResponded(ctx, inquiryID, req.Message); err != nil {
		return nil, err
	}
	if inq.BuyerEmail != "" && s.deps.Mailer != nil {
		body := fmt.Sprintf("The seller replied about %q:\n\n%s", inq.CarTitle, req.Message)
		if err := s.deps.Mailer.SendEmail(inq.BuyerEmail, "Reply to your inquiry", body); err != nil {
			slog.Warn("failed to email buyer", "inquiry_id", inquiryID, "err", err)
		}
	}
	return s.deps.InquiryRepo.Get(ctx, inquiryID)
}

func (s *service) MarkSpam(ctx context.Context, sellerID, inquiryID string) error {
	if _, err := s.ownedInquiry(ctx, sellerID, inquiryID); err != nil {
		return err
	}
	return s.deps.InquiryRepo.UpdateStatus(ctx, inquiryID, domain.InquiryStatusSpam)
}

func (s *service) ListForSeller(ctx context.Context, sellerID, status string, limit int, cursor string) (*ListResult, error) {
	if status != "" && !domain.ValidInquiryStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrBadRequest)
	}
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	inquiries, next, err := s.deps.InquiryRepo.QueryBySeller(ctx, sellerID, limit, cursor)
	if err != nil {
		return nil, err
	}
	if status != "" {
		filtered := inquiries[:0]
		for _, inq := range inquiries {
			if inq.Status == status {
				filtered = append(filtered, inq)
			}
		}
		inquiries = filtered
	}
	return &ListResult{Inquiries: inquiries, NextCursor: next}, nil
}

func (s *service) ListForCar(ctx context.Context, sellerID, carID string, limit int, cursor string) (*ListResult, error) {
	car, err := s.deps.CarRepo.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.SellerID != sellerID {
		return nil, fmt.Errorf("not your listing: %w", domain.ErrForbidden)
	}
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	inquiries, next, err := s.deps.InquiryRepo.QueryByCar(ctx, carID, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &ListResult{Inquiries: inquiries, NextCursor: next}, nil
}

func (s *service) ownedInquiry(ctx context.Context, sellerID, inquiryID string) (*domain.Inquiry, error) {
	inq, err := s.deps.InquiryRepo.Get(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if inq.SellerID != sellerID {
		return nil, fmt.Errorf("not your inquiry: %w", domain.ErrForbidden)
	}
	return inq, nil
}
