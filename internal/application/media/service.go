package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/id"
)

// Upload size caps, enforced before anything touches S3.
const (
	MaxImageSize = 10 << 20  // 10 MiB
	MaxVideoSize = 100 << 20 // 100 MiB
)

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Kind        string // image or video
	UploaderID  string
}

type MediaStore interface {
	Put(ctx context.Context, m *domain.CarMedia) error
	Get(ctx context.Context, mediaID string) (*domain.CarMedia, error)
	ListByCar(ctx context.Context, carID string) ([]domain.CarMedia, error)
	Delete(ctx context.Context, mediaID string) error
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.CarMedia, error)
	Delete(ctx context.Context, mediaID, requesterID string, isAdmin bool) error
	ListForCar(ctx context.Context, carID string) ([]domain.CarMedia, error)
}

type ServiceDeps struct {
	MediaRepo MediaStore
	Objects   ObjectStore
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

// Upload stores a file in the temp area and records it unattached. The media
// stays in temp until a listing submission claims it.
func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.CarMedia, error) {
	if input.Kind != domain.MediaKindImage && input.Kind != domain.MediaKindVideo {
		return nil, fmt.Errorf("unknown media kind %q: %w", input.Kind, domain.ErrBadRequest)
	}
	if err := checkUpload(input); err != nil {
		return nil, err
	}

	mediaID := id.New()
	safeName := sanitizeFilename(input.Filename)
	key := fmt.Sprintf("%s%s/%s", domain.MediaTempPrefix, mediaID, safeName)

	url, err := s.deps.Objects.Upload(ctx, key, input.Reader, input.ContentType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.CarMedia{
		MediaID:     mediaID,
		Kind:        input.Kind,
		ObjectKey:   key,
		URL:         url,
		ContentType: input.ContentType,
		Size:        input.Size,
		UploadedBy:  input.UploaderID,
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.deps.MediaRepo.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, mediaID, requesterID string, isAdmin bool) error {
	m, err := s.deps.MediaRepo.Get(ctx, mediaID)
	if err != nil {
		return err
	}
	if m.UploadedBy != requesterID && !isAdmin {
		return fmt.Errorf("access denied: %w", domain.ErrForbidden)
	}
	if m.CarID != "" && !isAdmin {
		return fmt.Errorf("media belongs to a listing: %w", domain.ErrConflict)
	}
	if err := s.deps.Objects.Delete(ctx, m.ObjectKey); err != nil {
		return err
	}
	return s.deps.MediaRepo.Delete(ctx, mediaID)
}

func (s *service) ListForCar(ctx context.Context, carID string) ([]domain.CarMedia, error) {
	return s.deps.MediaRepo.ListByCar(ctx, carID)
}

func checkUpload(input UploadInput) error {
	switch input.Kind {
	case domain.MediaKindImage:
		if input.Size > MaxImageSize {
			return fmt.Errorf("image exceeds %d bytes: %w", MaxImageSize, domain.ErrBadRequest)
		}
		if !strings.HasPrefix(input.ContentType, "image/") {
			return fmt.Errorf("expected an image upload: %w", domain.ErrBadRequest)
		}
	case domain.MediaKindVideo:
		if input.Size > MaxVideoSize {
			return fmt.Errorf("video exceeds %d bytes: %w", MaxVideoSize, domain.ErrBadRequest)
		}
		if !strings.HasPrefix(input.ContentType, "video/") {
			return fmt.Errorf("expected a video upload: %w", domain.ErrBadRequest)
		}
	}
	return nil
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
