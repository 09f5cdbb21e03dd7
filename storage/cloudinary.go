package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/mshibata/fleamarket/configs"
)

type CloudinaryStorage struct{}

func (s *CloudinaryStorage) Store(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", fmt.Errorf("init cloudinary: %w", err)
	}

	name := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: fmt.Sprintf("%s_%s", name, uuid.New().String()),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", file.Filename, err)
	}

	return result.PublicID, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, path string) error {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return fmt.Errorf("init cloudinary: %w", err)
	}

	if _, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: path}); err != nil {
		return fmt.Errorf("destroy %s: %w", path, err)
	}
	return nil
}
