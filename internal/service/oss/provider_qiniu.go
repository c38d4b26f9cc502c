package oss

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"

	"github.com/asaabil/manajemenpaper/internal/database"
)

// qiniuProvider 七牛云Kodo提供商实现
type qiniuProvider struct {
	mac    *qbox.Mac
	bucket string
	region *storage.Region
}

func newQiniuProvider(cfg *database.OSSConfig) (Provider, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)
	region, err := storage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}
	return &qiniuProvider{mac: mac, bucket: cfg.Bucket, region: region}, nil
}

func (p *qiniuProvider) UploadObject(objectKey string, reader io.Reader, contentType string) error {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucket, objectKey),
	}
	upToken := putPolicy.UploadToken(p.mac)

	cfg := storage.Config{Region: p.region, UseHTTPS: true}
	uploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}
	putExtra := storage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	if err := uploader.Put(context.Background(), &ret, upToken, objectKey, reader, -1, &putExtra); err != nil {
		return fmt.Errorf("failed to upload object to qiniu kodo: %w", err)
	}
	return nil
}

func (p *qiniuProvider) DeleteObject(objectKey string) error {
	if err := p.bucketManager().Delete(p.bucket, objectKey); err != nil {
		return fmt.Errorf("failed to delete object from qiniu kodo: %w", err)
	}
	return nil
}

func (p *qiniuProvider) ObjectExists(objectKey string) (bool, error) {
	_, err := p.bucketManager().Stat(p.bucket, objectKey)
	if err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence in qiniu kodo: %w", err)
	}
	return true, nil
}

func (p *qiniuProvider) TestConnection() error {
	_, _, _, _, err := p.bucketManager().ListFiles(p.bucket, "", "", "", 1)
	if err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}
	return nil
}

func (p *qiniuProvider) bucketManager() *storage.BucketManager {
	return storage.NewBucketManager(p.mac, &storage.Config{Region: p.region})
}
