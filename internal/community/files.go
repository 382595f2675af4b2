package community

import (
	"context"
	"encoding/json"
	"io"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	PurposeProfileImage = "profile_image"
	PurposeAttachment   = "attachment"
)

// Upload is an incoming file payload
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
	ClientIP    string
}

// UploadFile stores a free-standing attachment
func (s *Service) UploadFile(ctx context.Context, in Upload) (*models.File, error) {
	var file *models.File
	err := s.withPayload(in, PurposeAttachment, func(f *models.File) error {
		file = f
		return s.store.Create(ctx, f)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("File uploaded", zap.Uint("file_id", file.ID), zap.String("name", file.OriginalName))
	return file, nil
}

func (s *Service) ListFiles(ctx context.Context) ([]models.File, error) {
	return s.store.ListFiles(ctx)
}

// DeleteFile removes a file row and then its payload. Profile images can
// only be removed by their owner.
func (s *Service) DeleteFile(ctx context.Context, actorID, fileID uint) error {
	var path string
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		file, err := tx.FindFile(ctx, fileID)
		if err != nil {
			return err
		}
		if file.UserID != nil && *file.UserID != actorID {
			return apperrors.Forbidden("file %d belongs to another user", fileID)
		}

		path = file.SavedPath
		_, err = tx.DeleteWhere(ctx, &models.File{}, "id", fileID)
		return err
	})
	if err != nil {
		return err
	}

	s.removePayloads([]string{path})
	return nil
}

// withPayload saves the payload, builds its row and hands it to persist.
// The payload is removed again when persist fails.
func (s *Service) withPayload(in Upload, purpose string, persist func(*models.File) error) error {
	if in.Body == nil || in.Name == "" {
		return apperrors.Validation("file is required")
	}

	metadata, err := json.Marshal(models.FileMetadata{UploadedFromIP: in.ClientIP, Purpose: purpose})
	if err != nil {
		return apperrors.Persistence("failed to encode file metadata", err)
	}

	path, size, err := s.files.Save(in.Name, in.Body)
	if err != nil {
		return apperrors.Persistence("failed to store file", err)
	}

	file := &models.File{
		SavedPath:    path,
		OriginalName: in.Name,
		ContentType:  in.ContentType,
		Size:         size,
		Metadata:     datatypes.JSON(metadata),
	}

	if err := persist(file); err != nil {
		s.removePayloads([]string{path})
		return err
	}
	return nil
}
