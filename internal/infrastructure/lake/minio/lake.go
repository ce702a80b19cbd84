package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// Lake is the S3-compatible object lake. Each storage tier maps to its own
// bucket; document metadata lives in S3 object tags so reclassification can
// rewrite state without moving the blob.
type Lake struct {
	client  *minio.Client
	buckets map[ports.Tier]string
	log     *slog.Logger
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool

	LandingBucket   string
	CanonicalBucket string
	DerivedBucket   string
}

func New(ctx context.Context, cfg Config, log *slog.Logger) (*Lake, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	l := &Lake{
		client: client,
		buckets: map[ports.Tier]string{
			ports.TierLanding:   cfg.LandingBucket,
			ports.TierCanonical: cfg.CanonicalBucket,
			ports.TierDerived:   cfg.DerivedBucket,
		},
		log: log,
	}
	if err := l.ensureBuckets(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lake) ensureBuckets(ctx context.Context) error {
	for tier, bucket := range l.buckets {
		if bucket == "" {
			return fmt.Errorf("no bucket configured for tier %s", tier)
		}
		exists, err := l.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if exists {
			continue
		}
		if err := l.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		l.log.Info("created bucket", slog.String("bucket", bucket), slog.String("tier", string(tier)))
	}
	return nil
}

func (l *Lake) bucket(tier ports.Tier) (string, error) {
	bucket, ok := l.buckets[tier]
	if !ok {
		return "", fmt.Errorf("unknown storage tier %q", tier)
	}
	return bucket, nil
}

func (l *Lake) Put(ctx context.Context, tier ports.Tier, key string, data io.Reader, size int64, contentType string) error {
	bucket, err := l.bucket(tier)
	if err != nil {
		return err
	}
	_, err = l.client.PutObject(ctx, bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (l *Lake) Download(ctx context.Context, tier ports.Tier, key, localPath string) error {
	bucket, err := l.bucket(tier)
	if err != nil {
		return err
	}
	if err := l.client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return wrapNotFound(fmt.Sprintf("download %s/%s", bucket, key), err)
	}
	return nil
}

func (l *Lake) Copy(ctx context.Context, srcTier ports.Tier, srcKey string, dstTier ports.Tier, dstKey string) error {
	srcBucket, err := l.bucket(srcTier)
	if err != nil {
		return err
	}
	dstBucket, err := l.bucket(dstTier)
	if err != nil {
		return err
	}
	_, err = l.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return wrapNotFound(fmt.Sprintf("copy %s/%s to %s/%s", srcBucket, srcKey, dstBucket, dstKey), err)
	}
	return nil
}

func (l *Lake) Delete(ctx context.Context, tier ports.Tier, key string) error {
	bucket, err := l.bucket(tier)
	if err != nil {
		return err
	}
	if err := l.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (l *Lake) GetTags(ctx context.Context, tier ports.Tier, key string) (map[string]string, error) {
	bucket, err := l.bucket(tier)
	if err != nil {
		return nil, err
	}
	objectTags, err := l.client.GetObjectTagging(ctx, bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		return nil, wrapNotFound(fmt.Sprintf("get tags %s/%s", bucket, key), err)
	}
	return objectTags.ToMap(), nil
}

func (l *Lake) SetTags(ctx context.Context, tier ports.Tier, key string, tagMap map[string]string) error {
	bucket, err := l.bucket(tier)
	if err != nil {
		return err
	}
	objectTags, err := tags.NewTags(tagMap, true)
	if err != nil {
		return fmt.Errorf("build tags for %s/%s: %w", bucket, key, err)
	}
	if err := l.client.PutObjectTagging(ctx, bucket, key, objectTags, minio.PutObjectTaggingOptions{}); err != nil {
		return wrapNotFound(fmt.Sprintf("set tags %s/%s", bucket, key), err)
	}
	return nil
}

func (l *Lake) List(ctx context.Context, tier ports.Tier, prefix string) ([]ports.ObjectInfo, error) {
	bucket, err := l.bucket(tier)
	if err != nil {
		return nil, err
	}

	var infos []ports.ObjectInfo
	for object := range l.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, object.Err)
		}
		infos = append(infos, ports.ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}
	return infos, nil
}

// wrapNotFound maps the S3 NoSuchKey family onto the domain sentinel so
// callers can branch without knowing the storage backend.
func wrapNotFound(operation string, err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.Code == "NoSuchObject") {
		return domain.WrapError(domain.ErrObjectNotFound, operation, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
