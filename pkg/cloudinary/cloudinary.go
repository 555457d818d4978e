package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/google/uuid"
)

// Client uploads member documents (KYC scans, shipping labels, certificates)
// as raw files and returns their delivery URLs.
type Client struct {
	cloudName string
	uploader  *uploader.API
}

func New(cloudName, apiKey, apiSecret string) (*Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{cloudName: cloudName, uploader: up}, nil
}

var overwriteFalse = false

// Upload stores the file under folder with a unique public id derived from
// name and returns the secure URL.
func (c *Client) Upload(ctx context.Context, file io.Reader, folder, name string) (string, error) {
	publicID := fmt.Sprintf("%s-%s", name, uuid.NewString()[:8])
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "raw",
		Overwrite:    &overwriteFalse,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// UploadBytes is the []byte convenience used by services that generate files
// in memory.
func (c *Client) UploadBytes(folder, name string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return c.Upload(ctx, bytes.NewReader(data), folder, name)
}

// FileURL rebuilds a delivery URL for an already uploaded public id.
func (c *Client) FileURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/raw/upload/%s", c.cloudName, publicID)
}

// NoopUploader satisfies the uploader contract when Cloudinary is not
// configured, for development and tests. References are opaque local ids.
type NoopUploader struct{}

func (NoopUploader) UploadBytes(folder, name string, _ []byte) (string, error) {
	return fmt.Sprintf("local://%s/%s-%s", folder, name, uuid.NewString()[:8]), nil
}
