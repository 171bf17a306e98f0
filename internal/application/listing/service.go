package listing

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/infrastructure/dynamo"
	"github.com/carmarket-api/internal/pkg/id"
)

const defaultPageSize = 20

type ListResult struct {
	Cars       []domain.Car `json:"cars"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type CarDetail struct {
	Car   *domain.Car       `json:"car"`
	Media []domain.CarMedia `json:"media"`
}

type SellerStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Sold      int `json:"sold"`
	Views     int `json:"total_views"`
	Inquiries int `json:"total_inquiries"`
}

// Store interfaces are satisfied by the dynamo repos.

type CarStore interface {
	CreateWithMedia(ctx context.Context, c *domain.Car, assocs []dynamo.MediaAssociation) error
	Get(ctx context.Context, carID string) (*domain.Car, error)
	Update(ctx context.Context, carID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, carID string) error
	AddToCounter(ctx context.Context, carID, field string, delta int) error
	QueryByStatus(ctx context.Context, status string, filter domain.CarFilter, limit int, cursor string) ([]domain.Car, string, error)
	QueryBySeller(ctx context.Context, sellerID string, limit int, cursor string) ([]domain.Car, string, error)
}

type MediaStore interface {
	Get(ctx context.Context, mediaID string) (*domain.CarMedia, error)
	ListByCar(ctx context.Context, carID string) ([]domain.CarMedia, error)
	Update(ctx context.Context, mediaID string, updates map[string]interface{}) error
}

type UserStore interface {
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type QueueStore interface {
	Put(ctx context.Context, item *domain.ModerationQueueItem) error
}

type ObjectStore interface {
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	ObjectURL(key string) string
}

// Taxonomy resolves brand/model/variant/city names during submission.
type Taxonomy interface {
	ResolveBrand(ctx context.Context, name string) (*domain.Brand, error)
	ResolveModel(ctx context.Context, brandID, name string) (*domain.CarModel, error)
	ResolveVariant(ctx context.Context, modelID, name string) (*domain.CarVariant, error)
	ResolveCity(ctx context.Context, name, state string) (*domain.City, error)
	AdjustCityCount(ctx context.Context, name, state string, delta int) error
}

type Service interface {
	Create(ctx context.Context, sellerID string, req domain.CreateCarRequest) (*domain.Car, error)
	Get(ctx context.Context, carID, viewerID string) (*CarDetail, error)
	List(ctx context.Context, filter domain.CarFilter, limit int, cursor string) (*ListResult, error)
	Update(ctx context.Context, sellerID, carID string, req domain.UpdateCarRequest) (*domain.Car, error)
	MarkSold(ctx context.Context, sellerID, carID string) (*domain.Car, error)
	Delete(ctx context.Context, sellerID, carID string) error
	SellerListings(ctx context.Context, sellerID string, limit int, cursor string) (*ListResult, error)
	Stats(ctx context.Context, sellerID string) (*SellerStats, error)
	RelocateMedia(ctx context.Context, carID string) error
}

type ServiceDeps struct {
	CarRepo   CarStore
	MediaRepo MediaStore
	UserRepo  UserStore
	QueueRepo QueueStore
	Objects   ObjectStore
	Taxonomy  Taxonomy
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, sellerID string, req domain.CreateCarRequest) (*domain.Car, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	brand, err := s.deps.Taxonomy.ResolveBrand(ctx, req.BrandName)
	if err != nil {
		return nil, err
	}
	model, err := s.deps.Taxonomy.ResolveModel(ctx, brand.BrandID, req.ModelName)
	if err != nil {
		return nil, err
	}
	variant, err := s.deps.Taxonomy.ResolveVariant(ctx, model.ModelID, req.VariantName)
	if err != nil {
		return nil, err
	}
	city, err := s.deps.Taxonomy.ResolveCity(ctx, req.CityName, req.StateName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	car := &domain.Car{
		CarID:     id.New(),
		BrandID:   brand.BrandID,
		BrandName: brand.Name,
		ModelID:   model.ModelID,
		ModelName: model.Name,
		CityID:    city.CityID,
		CityName:  city.Name,
		CityState: city.State,

		Year:         req.Year,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		KmDriven:     req.KmDriven,
		EngineCC:     req.EngineCC,
		Mileage:      req.Mileage,

		OwnerNumber:       req.OwnerNumber,
		ExteriorCondition: req.ExteriorCondition,
		InteriorCondition: req.InteriorCondition,
		EngineCondition:   req.EngineCondition,
		AccidentHistory:   req.AccidentHistory,

		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Negotiable:    req.Negotiable,

		Area:    req.Area,
		Address: req.Address,

		SellerID:    sellerID,
		SellerName:  req.Contact.SellerName,
		SellerPhone: req.Contact.PhoneNumber,
		SellerEmail: req.Contact.Email,

		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Features:    req.Features,

		Status:    domain.CarStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if variant != nil {
		car.VariantID = variant.VariantID
		car.VariantName = variant.Name
	}
	if car.Title == "" {
		car.Title = car.DeriveTitle()
	}

	assocs, err := s.collectMedia(ctx, sellerID, append(req.ImageIDs, req.VideoIDs...))
	if err != nil {
		return nil, err
	}

	if err := s.deps.CarRepo.CreateWithMedia(ctx, car, assocs); err != nil {
		return nil, err
	}

	// Best-effort from here down. The listing exists; everything else can be
	// retried or reconciled.
	if err := s.RelocateMedia(ctx, car.CarID); err != nil {
		slog.Warn("media relocation incomplete", "car_id", car.CarID, "err", err)
	}
	if err := s.deps.QueueRepo.Put(ctx, &domain.ModerationQueueItem{
		ItemID:    id.New(),
		Kind:      domain.ModerationItemListing,
		TargetID:  car.CarID,
		Status:    domain.ModerationStatusPending,
		Priority:  "normal",
		CreatedAt: now,
	}); err != nil {
		slog.Warn("failed to enqueue listing for review", "car_id", car.CarID, "err", err)
	}
	if err := s.deps.UserRepo.Update(ctx, sellerID, map[string]interface{}{"is_seller": true}); err != nil {
		slog.Warn("failed to flag user as seller", "user_id", sellerID, "err", err)
	}

	return car, nil
}

func (s *service) collectMedia(ctx context.Context, sellerID string, mediaIDs []string) ([]dynamo.MediaAssociation, error) {
	assocs := make([]dynamo.MediaAssociation, 0, len(mediaIDs))
	for i, mediaID := range mediaIDs {
		m, err := s.deps.MediaRepo.Get(ctx, mediaID)
		if err != nil {
			return nil, fmt.Errorf("media %s: %w", mediaID, err)
		}
		if m.UploadedBy != sellerID {
			return nil, fmt.Errorf("media %s does not belong to you: %w", mediaID, domain.ErrForbidden)
		}
		if m.CarID != "" {
			return nil, fmt.Errorf("media %s already attached: %w", mediaID, domain.ErrConflict)
		}
		assocs = append(assocs, dynamo.MediaAssociation{
			MediaID:   mediaID,
			Order:     i,
			IsPrimary: i == 0,
		})
	}
	return assocs, nil
}

// RelocateMedia moves a listing's media objects out of the temp area. It is
// idempotent: rows already holding final keys are skipped, so a partial run
// can be repeated safely.
func (s *service) RelocateMedia(ctx context.Context, carID string) error {
	media, err := s.deps.MediaRepo.ListByCar(ctx, carID)
	if err != nil {
		return err
	}
	var firstErr error
	for _, m := range media {
		if !m.InTempArea() {
			continue
		}
		finalKey := fmt.Sprintf("cars/%s/%s", carID, path.Base(m.ObjectKey))
		if err := s.deps.Objects.Copy(ctx, m.ObjectKey, finalKey); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.deps.MediaRepo.Update(ctx, m.MediaID, map[string]interface{}{
			"object_key": finalKey,
			"url":        s.deps.Objects.ObjectURL(finalKey),
		}); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.deps.Objects.Delete(ctx, m.ObjectKey); err != nil {
			slog.Warn("failed to remove temp media object", "key", m.ObjectKey, "err", err)
		}
	}
	return firstErr
}

func (s *service) Get(ctx context.Context, carID, viewerID string) (*CarDetail, error) {
	car, err := s.deps.CarRepo.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	visible := car.Status == domain.CarStatusApproved || car.Status == domain.CarStatusSold
	if !visible && car.SellerID != viewerID {
		return nil, fmt.Errorf("car not found: %w", domain.ErrNotFound)
	}
	if car.Status == domain.CarStatusApproved && car.SellerID != viewerID {
		if err := s.deps.CarRepo.AddToCounter(ctx, carID, "views_count", 1); err != nil {
			slog.Warn("failed to count view", "car_id", carID, "err", err)
		} else {
			car.ViewsCount++
		}
	}
	media, err := s.deps.MediaRepo.ListByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	return &CarDetail{Car: car, Media: media}, nil
}

func (s *service) List(ctx context.Context, filter domain.CarFilter, limit int, cursor string) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	cars, next, err := s.deps.CarRepo.QueryByStatus(ctx, domain.CarStatusApproved, filter, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &ListResult{Cars: cars, NextCursor: next}, nil
}

func (s *service) Update(ctx context.Context, sellerID, carID string, req domain.UpdateCarRequest) (*domain.Car, error) {
	car, err := s.ownedCar(ctx, sellerID, carID)
	if err != nil {
		return nil, err
	}
	if car.Status == domain.CarStatusSold {
		return nil, fmt.Errorf("sold listings cannot be edited: %w", domain.ErrConflict)
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Features != nil {
		updates["features"] = *req.Features
	}
	if req.Negotiable != nil {
		updates["negotiable"] = *req.Negotiable
	}
	if req.Urgency != nil {
		updates["urgency"] = *req.Urgency
	}
	if req.Price != nil && *req.Price != car.Price {
		if *req.Price > domain.CarPriceMax {
			return nil, fmt.Errorf("price exceeds maximum: %w", domain.ErrBadRequest)
		}
		if car.OriginalPrice == 0 {
			updates["original_price"] = car.Price
		}
		updates["price"] = *req.Price
		// A price change always goes back through review, whatever status
		// the listing is in.
		updates["status"] = domain.CarStatusPending
		updates["verified"] = false
		if car.Status != domain.CarStatusPending {
			if err := s.deps.QueueRepo.Put(ctx, &domain.ModerationQueueItem{
				ItemID:    id.New(),
				Kind:      domain.ModerationItemListing,
				TargetID:  carID,
				Status:    domain.ModerationStatusPending,
				Priority:  "normal",
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				slog.Warn("failed to re-enqueue listing for review", "car_id", carID, "err", err)
			}
		}
	}
	if len(updates) == 0 {
		return car, nil
	}
	if err := s.deps.CarRepo.Update(ctx, carID, updates); err != nil {
		return nil, err
	}
	return s.deps.CarRepo.Get(ctx, carID)
}

func (s *service) MarkSold(ctx context.Context, sellerID, carID string) (*domain.Car, error) {
	car, err := s.ownedCar(ctx, sellerID, carID)
	if err != nil {
		return nil, err
	}
	if car.Status != domain.CarStatusApproved {
		return nil, fmt.Errorf("only live listings can be marked sold: %w", domain.ErrConflict)
	}
	now := time.Now().UTC()
	if err := s.deps.CarRepo.Update(ctx, carID, map[string]interface{}{
		"status":  domain.CarStatusSold,
		"sold_at": now,
	}); err != nil {
		return nil, err
	}
	if err := s.deps.Taxonomy.AdjustCityCount(ctx, car.CityName, car.CityState, -1); err != nil {
		slog.Warn("failed to adjust city car count", "city", car.CityName, "err", err)
	}
	car.Status = domain.CarStatusSold
	car.SoldAt = &now
	return car, nil
}

func (s *service) Delete(ctx context.Context, sellerID, carID string) error {
	car, err := s.ownedCar(ctx, sellerID, carID)
	if err != nil {
		return err
	}
	if err := s.deps.CarRepo.SoftDelete(ctx, carID); err != nil {
		return err
	}
	if car.Status == domain.CarStatusApproved {
		if err := s.deps.Taxonomy.AdjustCityCount(ctx, car.CityName, car.CityState, -1); err != nil {
			slog.Warn("failed to adjust city car count", "city", car.CityName, "err", err)
		}
	}
	return nil
}

func (s *service) SellerListings(ctx context.Context, sellerID string, limit int, cursor string) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	cars, next, err := s.deps.CarRepo.QueryBySeller(ctx, sellerID, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &ListResult{Cars: cars, NextCursor: next}, nil
}

func (s *service) Stats(ctx context.Context, sellerID string) (*SellerStats, error) {
	stats := &SellerStats{}
	cursor := ""
	for {
		cars, next, err := s.deps.CarRepo.QueryBySeller(ctx, sellerID, 100, cursor)
		if err != nil {
			return nil, err
		}
		for _, c := range cars {
			stats.Total++
			switch c.Status {
			case domain.CarStatusPending:
				stats.Pending++
			case domain.CarStatusApproved:
				stats.Approved++
			case domain.CarStatusRejected:
				stats.Rejected++
			case domain.CarStatusSold:
				stats.Sold++
			}
			stats.Views += c.ViewsCount
			stats.Inquiries += c.InquiriesCount
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return stats, nil
}

func (s *service) ownedCar(ctx context.Context, sellerID, carID string) (*domain.Car, error) {
	car, err := s.deps.CarRepo.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.SellerID != sellerID {
		return nil, fmt.Errorf("not your listing: %w", domain.ErrForbidden)
	}
	if car.Status == domain.CarStatusInactive {
		return nil, fmt.Errorf("car not found: %w", domain.ErrNotFound)
	}
	return car, nil
}

func validateCreate(req *domain.CreateCarRequest) error {
	maxYear := time.Now().Year() + 1
	if req.Year < domain.CarYearMin || req.Year > maxYear {
		return fmt.Errorf("year must be between %d and %d: %w", domain.CarYearMin, maxYear, domain.ErrBadRequest)
	}
	if req.Price > domain.CarPriceMax {
		return fmt.Errorf("price exceeds maximum: %w", domain.ErrBadRequest)
	}
	if !domain.ValidFuelType(req.FuelType) {
		return fmt.Errorf("unknown fuel type %q: %w", req.FuelType, domain.ErrBadRequest)
	}
	if !domain.ValidTransmission(req.Transmission) {
		return fmt.Errorf("unknown transmission %q: %w", req.Transmission, domain.ErrBadRequest)
	}
	for _, cond := range []string{req.ExteriorCondition, req.InteriorCondition, req.EngineCondition} {
		if !domain.ValidCondition(cond) {
			return fmt.Errorf("unknown condition %q: %w", cond, domain.ErrBadRequest)
		}
	}
	return nil
}
