package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrUnsupportedMedia = errors.New("unsupported media type")

var allowedImageTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {},
}

type MediaService interface {
	Save(ctx context.Context, file []byte) (*transfer.MediaFile, error)
}

type mediaService struct {
	cfg    config.Config
	mirror MediaMirror
}

// NewMediaService stores images in cfg.MediaDir. mirror may be nil.
func NewMediaService(cfg config.Config, mirror MediaMirror) MediaService {
	return &mediaService{
		cfg:    cfg,
		mirror: mirror,
	}
}

// Save writes an image under a generated name so scheduled posts can
// reference it in their image list.
func (s *mediaService) Save(ctx context.Context, file []byte) (*transfer.MediaFile, error) {
	kind, err := filetype.Match(file)
	if err != nil || kind == types.Unknown {
		return nil, ErrUnsupportedMedia
	}
	if _, ok := allowedImageTypes[kind.Extension]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	name := id + "." + kind.Extension

	if err := os.MkdirAll(s.cfg.MediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.cfg.MediaDir, name), file, 0o644); err != nil {
		return nil, fmt.Errorf("writing media file: %w", err)
	}

	media := &transfer.MediaFile{
		Name:        name,
		ContentType: kind.MIME.Value,
		Size:        len(file),
	}

	if s.mirror != nil {
		if err := s.mirror.UploadToR2(ctx, name, file, kind.MIME.Value); err != nil {
			slog.Warn("mirroring media to r2 failed", "file", name, "error", err)
		} else {
			media.URL = s.mirror.PublicURL(name)
		}
	}

	return media, nil
}
