package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"eduplatform/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Uploader relays a multipart file to external object storage and returns
// its public URL plus the object key. Constructed once at startup.
type Uploader interface {
	Upload(file *multipart.FileHeader, folder string) (url string, key string, err error)
}

type OSSUploader struct {
	bucket  *oss.Bucket
	baseURL string
}

func NewOSSUploader(cfg *config.Config) (*OSSUploader, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKeyID, cfg.OSSAccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.OSSBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.%s", cfg.OSSBucket, cfg.OSSEndpoint)
	}

	return &OSSUploader{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *OSSUploader) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	opts := []oss.Option{}
	if ct := file.Header.Get("Content-Type"); ct != "" {
		opts = append(opts, oss.ContentType(ct))
	}

	if err := u.bucket.PutObject(key, src, opts...); err != nil {
		return "", "", err
	}

	return u.baseURL + "/" + key, key, nil
}
