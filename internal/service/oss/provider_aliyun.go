package oss

import (
	"fmt"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/asaabil/manajemenpaper/internal/database"
)

// aliyunProvider 阿里云OSS提供商实现
type aliyunProvider struct {
	client *oss.Client
	bucket *oss.Bucket
	cfg    *database.OSSConfig
}

func newAliyunProvider(cfg *database.OSSConfig) (Provider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.Region)
	}

	client, err := oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	return &aliyunProvider{client: client, bucket: bucket, cfg: cfg}, nil
}

func (p *aliyunProvider) UploadObject(objectKey string, reader io.Reader, contentType string) error {
	var options []oss.Option
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}
	if err := p.bucket.PutObject(objectKey, reader, options...); err != nil {
		return fmt.Errorf("failed to upload object to aliyun oss: %w", err)
	}
	return nil
}

func (p *aliyunProvider) DeleteObject(objectKey string) error {
	if err := p.bucket.DeleteObject(objectKey); err != nil {
		return fmt.Errorf("failed to delete object from aliyun oss: %w", err)
	}
	return nil
}

func (p *aliyunProvider) ObjectExists(objectKey string) (bool, error) {
	exists, err := p.bucket.IsObjectExist(objectKey)
	if err != nil {
		return false, fmt.Errorf("failed to check object existence in aliyun oss: %w", err)
	}
	return exists, nil
}

func (p *aliyunProvider) TestConnection() error {
	if _, err := p.client.GetBucketInfo(p.cfg.Bucket); err != nil {
		return fmt.Errorf("failed to test aliyun oss connection: %w", err)
	}
	return nil
}
