package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	FolderArticleImages   = "articles"
	FolderProfilePictures = "profile_pictures"
	FolderPublisherLogos  = "publisher_logos"
)

var ErrNotConfigured = errors.New("image storage is not configured")

// ImageStorage defines contract for image storage provider (Cloudinary implementation).
type ImageStorage interface {
	// UploadImage uploads image from reader and returns the secure URL.
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage deletes image from storage using its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}

type cloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	rootFolder string
}

// NewCloudinaryStorage creates Cloudinary-backed implementation of ImageStorage.
// Every upload lands under rootFolder/<folder>.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, rootFolder string) (ImageStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld, rootFolder: rootFolder}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	params := uploader.UploadParams{
		Folder:         strings.Trim(s.rootFolder+"/"+folder, "/"),
		PublicID:       fmt.Sprintf("%d-%s", time.Now().UnixNano(), base),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
		Transformation: "q_auto",
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	publicID := PublicIDFromURL(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from cloudinary: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

// PublicIDFromURL extracts the Cloudinary public ID from a delivery URL.
//
//	https://res.cloudinary.com/demo/image/upload/v123/articles/sample.webp -> articles/sample
func PublicIDFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}
	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return ""
	}

	rest := parts[uploadIndex+1:]
	if isVersionSegment(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}

	withExt := strings.Join(rest, "/")
	return strings.TrimSuffix(withExt, filepath.Ext(withExt))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
