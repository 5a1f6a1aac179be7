package services

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
)

// ImageUploader stores an event image and returns its hosted url.
type ImageUploader interface {
	UploadEventImage(ctx context.Context, source string) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadEventImage(ctx context.Context, source string) (string, error) {
	urls, err := helpers.UploadImages(ctx, u.cld, []string{source}, helpers.EventsFolder)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", fmt.Errorf("no image uploaded")
	}
	return urls[0], nil
}
