package service

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/pageza/recipe-api/backend/internal/storage"
	"github.com/pageza/recipe-api/backend/internal/types"
)

const (
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgEmptyImage    = "The submitted file is empty."
	msgImageTooLarge = "Image dimensions are too large."

	// MaxImagePixels bounds width*height of an accepted upload. Decoders
	// allocate the pixel buffer from the header before reading pixel data.
	MaxImagePixels = 40_000_000
)

// PreparedImage is an upload that passed validation and has been assigned a
// storage key.
type PreparedImage struct {
	Key         string
	ContentType string
	Width       int
	Height      int
	Data        []byte
}

// ImageService validates uploads and writes them under uploadDir in the
// configured store.
type ImageService struct {
	store     storage.ImageStore
	uploadDir string
	newID     func() string
}

func NewImageService(store storage.ImageStore, uploadDir string) *ImageService {
	return &ImageService{
		store:     store,
		uploadDir: strings.Trim(filepath.ToSlash(uploadDir), "/"),
		newID:     uuid.NewString,
	}
}

// Prepare decodes data and picks the key it will be stored under. Nothing is
// written.
func (s *ImageService) Prepare(filename string, data []byte) (*PreparedImage, error) {
	if len(data) == 0 {
		return nil, types.NewValidationError("image", msgEmptyImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewValidationError("image", msgInvalidImage)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, types.NewValidationError("image", msgInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, types.NewValidationError("image", msgImageTooLarge)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewValidationError("image", msgInvalidImage)
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, types.NewValidationError("image", msgInvalidImage)
	}

	bounds := img.Bounds()
	return &PreparedImage{
		Key:         s.FilePath(filename, detected),
		ContentType: detected.String(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Data:        data,
	}, nil
}

// FilePath returns "<uploadDir>/<uuid><ext>". The original extension is kept
// when it agrees with the detected content type, otherwise the detected
// type's extension is used.
func (s *ImageService) FilePath(filename string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !detected.Is(mime.TypeByExtension(ext)) {
		ext = detected.Extension()
	}
	return path.Join(s.uploadDir, s.newID()+ext)
}

// Store writes a prepared image.
func (s *ImageService) Store(ctx context.Context, img *PreparedImage) error {
	return s.store.Save(ctx, img.Key, img.Data, img.ContentType)
}

// Remove deletes a stored image. Missing files are not an error.
func (s *ImageService) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

// URL is the public URL of a stored image.
func (s *ImageService) URL(key string) string {
	return s.store.URL(key)
}
