package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"amazonia/internal/infra"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/logging"
	"amazonia/pkg/utils"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

type PhotoServiceInterface interface {
	// RequestUpload registers a photo for the caller's own visit and returns
	// a pre-signed PUT URL for the bytes.
	RequestUpload(ctx context.Context, userID, visitID uuid.UUID, contentType string) (*response_models.PhotoUploadResponse, error)
}

type PhotoService struct {
	visits  repositories.VisitRepository
	storage infra.ObjectStorage
}

// NewPhotoService accepts a nil storage; uploads then fail with ErrStorageDisabled.
func NewPhotoService(visits repositories.VisitRepository, storage infra.ObjectStorage) PhotoServiceInterface {
	return &PhotoService{visits: visits, storage: storage}
}

func (s *PhotoService) RequestUpload(ctx context.Context, userID, visitID uuid.UUID, contentType string) (*response_models.PhotoUploadResponse, error) {
	if s.storage == nil {
		return nil, utils.ErrStorageDisabled
	}
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, utils.ErrInvalidRequest
	}

	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, storeErr(err)
	}
	if visit == nil {
		return nil, utils.ErrVisitNotFound
	}
	if visit.UserID != userID {
		return nil, utils.ErrForbidden
	}

	photoID := uuid.New()
	key := fmt.Sprintf("visits/%s/%s%s", visit.ID, photoID, ext)

	upload, err := s.storage.PresignPut(ctx, key, contentType)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("object_key", key).Msg("presign failed")
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}

	photo := &db_models.Photo{
		VisitID:     visit.ID,
		UserID:      userID,
		ObjectKey:   key,
		ContentType: contentType,
	}
	photo.ID = photoID
	if err := s.visits.CreatePhoto(ctx, photo); err != nil {
		return nil, storeErr(err)
	}

	return &response_models.PhotoUploadResponse{
		PhotoID:   photo.ID.String(),
		ObjectKey: key,
		UploadURL: upload.URL,
		Method:    upload.Method,
		Headers:   upload.Headers,
		ExpiresAt: utils.FormatRFC3339Local(upload.ExpiresAt),
	}, nil
}
