package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carmarket-api/internal/domain"
)

// --- mocks ---

type mockMediaStore struct{ mock.Mock }

func (m *mockMediaStore) Put(ctx context.Context, media *domain.CarMedia) error {
	return m.Called(ctx, media).Error(0)
}
func (m *mockMediaStore) Get(ctx context.Context, mediaID string) (*domain.CarMedia, error) {
	args := m.Called(ctx, mediaID)
	if media, _ := args.Get(0).(*domain.CarMedia); media != nil {
		return media, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMediaStore) ListByCar(ctx context.Context, carID string) ([]domain.CarMedia, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).([]domain.CarMedia), args.Error(1)
}
func (m *mockMediaStore) Delete(ctx context.Context, mediaID string) error {
	return m.Called(ctx, mediaID).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- helpers ---

func imageInput() UploadInput {
	return UploadInput{
		Reader:      strings.NewReader("jpeg bytes"),
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Kind:        domain.MediaKindImage,
		UploaderID:  "u1",
	}
}

// --- tests ---

func TestUpload_RejectsUnknownKind(t *testing.T) {
	svc := NewService(ServiceDeps{})
	input := imageInput()
	input.Kind = "document"
	_, err := svc.Upload(context.Background(), input)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpload_RejectsOversizedImage(t *testing.T) {
	svc := NewService(ServiceDeps{})
	input := imageInput()
	input.Size = MaxImageSize + 1
	_, err := svc.Upload(context.Background(), input)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpload_RejectsMismatchedContentType(t *testing.T) {
	svc := NewService(ServiceDeps{})
	input := imageInput()
	input.ContentType = "application/pdf"
	_, err := svc.Upload(context.Background(), input)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpload_StoresInTempArea(t *testing.T) {
	objects := &mockObjectStore{}
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, domain.MediaTempPrefix) && strings.HasSuffix(key, "/front.jpg")
	}), mock.Anything, "image/jpeg").Return("https://media.example.com/x", nil)
	store := &mockMediaStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(m *domain.CarMedia) bool {
		return m.CarID == "" && m.UploadedBy == "u1" && m.Enable && m.InTempArea()
	})).Return(nil)

	svc := NewService(ServiceDeps{MediaRepo: store, Objects: objects})
	m, err := svc.Upload(context.Background(), imageInput())

	require.NoError(t, err)
	assert.NotEmpty(t, m.MediaID)
	assert.Equal(t, "https://media.example.com/x", m.URL)
	objects.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestUpload_SanitizesFilename(t *testing.T) {
	objects := &mockObjectStore{}
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return !strings.Contains(key, "..") && strings.HasSuffix(key, "/passwd")
	}), mock.Anything, mock.Anything).Return("url", nil)
	store := &mockMediaStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{MediaRepo: store, Objects: objects})
	input := imageInput()
	input.Filename = "../../etc/passwd"
	_, err := svc.Upload(context.Background(), input)

	require.NoError(t, err)
	objects.AssertExpectations(t)
}

func TestDelete_NotUploader(t *testing.T) {
	store := &mockMediaStore{}
	store.On("Get", mock.Anything, "m1").Return(&domain.CarMedia{
		MediaID:    "m1",
		UploadedBy: "u1",
	}, nil)

	svc := NewService(ServiceDeps{MediaRepo: store})
	err := svc.Delete(context.Background(), "m1", "intruder", false)

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_AttachedMediaRejected(t *testing.T) {
	store := &mockMediaStore{}
	store.On("Get", mock.Anything, "m1").Return(&domain.CarMedia{
		MediaID:    "m1",
		CarID:      "car1",
		UploadedBy: "u1",
	}, nil)

	svc := NewService(ServiceDeps{MediaRepo: store})
	err := svc.Delete(context.Background(), "m1", "u1", false)

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestDelete_AdminOverridesAttachment(t *testing.T) {
	store := &mockMediaStore{}
	store.On("Get", mock.Anything, "m1").Return(&domain.CarMedia{
		MediaID:    "m1",
		CarID:      "car1",
		UploadedBy: "u1",
		ObjectKey:  "cars/car1/m1/front.jpg",
	}, nil)
	store.On("Delete", mock.Anything, "m1").Return(nil)
	objects := &mockObjectStore{}
	objects.On("Delete", mock.Anything, "cars/car1/m1/front.jpg").Return(nil)

	svc := NewService(ServiceDeps{MediaRepo: store, Objects: objects})
	err := svc.Delete(context.Background(), "m1", "admin1", true)

	require.NoError(t, err)
	store.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestDelete_UploaderRemovesUnattachedMedia(t *testing.T) {
	store := &mockMediaStore{}
	store.On("Get", mock.Anything, "m1").Return(&domain.CarMedia{
		MediaID:    "m1",
		UploadedBy: "u1",
		ObjectKey:  "cars/temp/m1/front.jpg",
	}, nil)
	store.On("Delete", mock.Anything, "m1").Return(nil)
	objects := &mockObjectStore{}
	objects.On("Delete", mock.Anything, "cars/temp/m1/front.jpg").Return(nil)

	svc := NewService(ServiceDeps{MediaRepo: store, Objects: objects})
	err := svc.Delete(context.Background(), "m1", "u1", false)

	require.NoError(t, err)
	store.AssertExpectations(t)
}
