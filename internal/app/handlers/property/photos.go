package property

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"erents/internal/app/commands"
	"erents/internal/app/uow"
	"erents/internal/infra/storage/s3"
)

const uploadPropertyPhotoKey = "property.photos.upload"

type UploadPhotoCommand struct {
	ActorID     string
	PropertyID  string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (c UploadPhotoCommand) Key() string { return uploadPropertyPhotoKey }

type UploadPhotoResult struct {
	PropertyID string   `json:"property_id"`
	Photos     []string `json:"photos"`
}

type UploadPhotoHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

func (h *UploadPhotoHandler) Handle(ctx context.Context, cmd UploadPhotoCommand) (*UploadPhotoResult, error) {
	if h.Uploader == nil {
		return nil, errors.New("photo uploader unavailable")
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return nil, errors.New("actor id is required")
	}
	if strings.TrimSpace(cmd.PropertyID) == "" {
		return nil, errors.New("property id is required")
	}
	if cmd.Reader == nil {
		return nil, errors.New("photo reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}

	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	prop, err := loadOwned(ctx, unit, cmd.PropertyID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	prop.AttachPhoto(publicURL, now)
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("property photo added", "property_id", prop.ID, "owner_id", cmd.ActorID, "object_key", cmd.ObjectKey)
	}

	return &UploadPhotoResult{
		PropertyID: string(prop.ID),
		Photos:     append([]string(nil), prop.Photos...),
	}, nil
}

var _ commands.Handler[UploadPhotoCommand, *UploadPhotoResult] = (*UploadPhotoHandler)(nil)
