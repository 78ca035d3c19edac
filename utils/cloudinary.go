package utils

import (
	"context"
	"fmt"
	"mime/multipart"

	"elanis/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// DocumentUploader stores application documents (id scans, certificates) on
// the media host and returns their public URL.
type DocumentUploader interface {
	Upload(ctx context.Context, file multipart.File, folder, publicID string) (string, error)
}

// CloudinaryUploader implements DocumentUploader on Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// Cloudinary initializes the uploader from the configured credentials URL.
func Cloudinary() (*CloudinaryUploader, error) {
	url := config.AppConfig.CloudinaryURL
	if url == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload pushes the file and returns its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file multipart.File, folder, publicID string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return resp.SecureURL, nil
}
