package helpers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const EventsFolder = "events"

var dataURIPattern = regexp.MustCompile(`^data:[\w-]+/[\w.+-]+(;[\w-]+=[\w-]+)*;base64,[A-Za-z0-9/+\n=]+$`)

// UploadImages only accepts remote URLs and base64 data URIs. Anything else
// would be read by the uploader as a path on this machine.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, imageNames []string, imagePath string) ([]string, error) {
	if cld == nil {
		return nil, fmt.Errorf("cloudinary client is not initialized")
	}
	var urls []string
	for _, filePath := range imageNames {
		if strings.TrimSpace(filePath) == "" {
			continue
		}
		if !IsRemoteURL(filePath) && !IsDataURI(filePath) {
			return nil, fmt.Errorf("refusing to upload image: source must be an http(s) url or a data uri")
		}
		uploadResult, err := cld.Upload.Upload(ctx, filePath, uploader.UploadParams{
			Folder: imagePath,
			Tags:   []string{"sportsmeet"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %s: %v", filePath, err)
		}
		if uploadResult.Error.Message != "" {
			return nil, fmt.Errorf("failed to upload image %s: %s", filePath, uploadResult.Error.Message)
		}
		urls = append(urls, uploadResult.SecureURL)
	}
	return urls, nil
}

// IsRemoteURL reports whether s is already a hosted image rather than a
// data URI that still needs uploading.
func IsRemoteURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsDataURI reports whether s is an inline base64 payload such as
// "data:image/png;base64,iVBOR...".
func IsDataURI(s string) bool {
	return dataURIPattern.MatchString(strings.TrimSpace(s))
}
