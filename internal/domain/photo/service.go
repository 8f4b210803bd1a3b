package photo

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"photo-review-go/internal/pagination"
	"github.com/nfnt/resize"
)

const defaultThumbnailMaxDim = 256

type Service struct {
	repo            Repository
	thumbnailMaxDim uint
}

func NewService(repo Repository, thumbnailMaxDim uint) *Service {
	if thumbnailMaxDim == 0 {
		thumbnailMaxDim = defaultThumbnailMaxDim
	}
	return &Service{repo: repo, thumbnailMaxDim: thumbnailMaxDim}
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter, p pagination.Params) ([]Photo, int64, error) {
	filter.Limit, filter.Offset = pagination.Bounds(p)
	return s.repo.ListPhotos(ctx, userID, filter)
}

func (s *Service) ListByLibrary(ctx context.Context, userID, libraryID string, p pagination.Params) ([]Photo, int64, error) {
	limit, offset := pagination.Bounds(p)
	return s.repo.ListLibraryPhotos(ctx, userID, libraryID, limit, offset)
}

// Get resolves a photo within the caller's visible scope; non-members read
// the same not-found as a nonexistent id.
func (s *Service) Get(ctx context.Context, userID, photoID string) (*Photo, error) {
	return s.repo.GetPhoto(ctx, userID, photoID)
}

// Update patches mutable photo attributes. Any member of the photo's project
// may patch; the scoped lookup is the access gate.
func (s *Service) Update(ctx context.Context, userID, photoID string, input UpdateInput) (*Photo, error) {
	p, err := s.repo.GetPhoto(ctx, userID, photoID)
	if err != nil {
		return nil, err
	}

	if input.Metadata == nil && input.ThumbnailPath == nil {
		return p, nil
	}

	if input.Metadata != nil {
		p.Metadata = input.Metadata
	}
	if input.ThumbnailPath != nil {
		p.ThumbnailPath = input.ThumbnailPath
	}

	if err := s.repo.UpdatePhoto(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GenerateThumbnail renders a downscaled jpeg next to the source file and
// records its path on the photo row.
func (s *Service) GenerateThumbnail(ctx context.Context, userID, photoID string) (*Photo, error) {
	p, err := s.repo.GetPhoto(ctx, userID, photoID)
	if err != nil {
		return nil, err
	}

	thumbPath, err := s.renderThumbnail(p.AbsolutePath)
	if err != nil {
		return nil, err
	}

	p.ThumbnailPath = &thumbPath
	if err := s.repo.UpdatePhoto(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) renderThumbnail(sourcePath string) (string, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if format != "jpeg" && format != "png" {
		return "", ErrUnsupportedFormat
	}

	thumb := resize.Thumbnail(s.thumbnailMaxDim, s.thumbnailMaxDim, img, resize.Lanczos3)

	ext := filepath.Ext(sourcePath)
	thumbPath := strings.TrimSuffix(sourcePath, ext) + "_thumb" + ext

	out, err := os.Create(thumbPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	switch format {
	case "png":
		err = png.Encode(out, thumb)
	default:
		err = jpeg.Encode(out, thumb, nil)
	}
	if err != nil {
		return "", err
	}

	return thumbPath, nil
}
