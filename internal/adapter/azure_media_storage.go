package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"

	"seungpyo.lee/Speceal/pkg/logger"
)

// azureMediaStorage implements MediaStorage on Azure Blob Storage. Blob
// names double as the public ids recorded on catalog rows.
type azureMediaStorage struct {
	client    *azblob.Client
	container string
	log       *logger.Logger
}

// NewAzureMediaStorage connects to the storage account and ensures the
// container exists with public blob access.
func NewAzureMediaStorage(connectionString, container string, log *logger.Logger) (MediaStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	_, err = client.CreateContainer(context.Background(), container, &azblob.CreateContainerOptions{
		Access: to.Ptr(azblob.PublicAccessTypeBlob),
	})
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.ErrorCode == string(bloberror.ContainerAlreadyExists) {
			log.Debug("blob container %q already exists, skipping creation", container)
		} else {
			return nil, fmt.Errorf("failed to create blob container: %w", err)
		}
	}
	return &azureMediaStorage{client: client, container: container, log: log}, nil
}

// Upload stores the image bytes under a fresh object key and reports the
// asset descriptor. Dimensions and format are read from the image header
// before the network round trip; undecodable payloads are rejected.
func (s *azureMediaStorage) Upload(ctx context.Context, data []byte) (*AssetDescriptor, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image data: %w", err)
	}

	publicID := uuid.New().String() + "." + format
	contentType := "image/" + format
	_, err = s.client.UploadBuffer(ctx, s.container, publicID, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return nil, fmt.Errorf("blob upload failed: %w", err)
	}

	return &AssetDescriptor{
		URL:      s.URLFor(publicID),
		PublicID: publicID,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   format,
	}, nil
}

// Delete removes the blob backing publicID.
func (s *azureMediaStorage) Delete(ctx context.Context, publicID string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, publicID, nil); err != nil {
		return fmt.Errorf("blob delete failed: %w", err)
	}
	return nil
}

// URLFor builds the public URL of a stored blob.
func (s *azureMediaStorage) URLFor(publicID string) string {
	return fmt.Sprintf("%s%s/%s", ensureTrailingSlash(s.client.URL()), s.container, publicID)
}

func ensureTrailingSlash(url string) string {
	if strings.HasSuffix(url, "/") {
		return url
	}
	return url + "/"
}
