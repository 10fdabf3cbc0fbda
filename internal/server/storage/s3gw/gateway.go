// Package s3gw implements storage.Gateway over an S3-compatible bucket using
// the AWS SDK. The client is built once at construction and injected into
// the services that need it; there is no lazy global.
package s3gw

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/server/storage"
)

// Seams for tests; production code never reassigns these.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return pc.PresignPostObject(ctx, in, optFns...)
	}

	listObjectsV2 = func(c *s3.Client, ctx context.Context, in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
		return c.ListObjectsV2(ctx, in)
	}

	copyObject = func(c *s3.Client, ctx context.Context, in *s3.CopyObjectInput) (*s3.CopyObjectOutput, error) {
		return c.CopyObject(ctx, in)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}

	deleteObjects = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
		return c.DeleteObjects(ctx, in)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// Config carries the settings needed to reach the bucket.
type Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	// UploadExpiry bounds presigned-POST validity.
	UploadExpiry time.Duration
}

// Gateway implements storage.Gateway over one bucket.
type Gateway struct {
	client       *s3.Client
	presign      *s3.PresignClient
	bucket       string
	uploadExpiry time.Duration
}

var _ storage.Gateway = (*Gateway)(nil)

// New builds the S3 client once from static credentials and wraps it.
func New(ctx context.Context, cfg Config) (*Gateway, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	expiry := cfg.UploadExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &Gateway{
		client:       client,
		presign:      newS3PresignClient(client),
		bucket:       cfg.Bucket,
		uploadExpiry: expiry,
	}, nil
}

func (g *Gateway) List(ctx context.Context, prefix, delimiter string) ([]storage.Object, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		in.Delimiter = aws.String(delimiter)
	}

	out, err := listObjectsV2(g.client, ctx, in)
	if err != nil {
		return nil, g.fail("list objects", err)
	}

	result := make([]storage.Object, 0, len(out.Contents)+len(out.CommonPrefixes))
	for _, obj := range out.Contents {
		result = append(result, storage.Object{
			Key:          aws.ToString(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	for _, cp := range out.CommonPrefixes {
		result = append(result, storage.Object{Prefix: aws.ToString(cp.Prefix)})
	}
	return result, nil
}

func (g *Gateway) PresignUpload(ctx context.Context, key, contentType string) (*storage.UploadURL, error) {
	req, err := presignPostObject(g.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = g.uploadExpiry
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, storage.MaxUploadBytes},
			map[string]string{"Content-Type": contentType},
		}
	})
	if err != nil {
		return nil, g.fail("presign upload", err)
	}

	return &storage.UploadURL{URL: req.URL, Fields: req.Values}, nil
}

func (g *Gateway) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := presignGetObject(g.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", g.fail("presign download", err)
	}
	return req.URL, nil
}

func (g *Gateway) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := copyObject(g.client, ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(g.bucket),
		CopySource: aws.String(g.bucket + "/" + url.PathEscape(srcKey)),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return g.fail("copy object", err)
	}
	return nil
}

func (g *Gateway) Delete(ctx context.Context, key string) error {
	_, err := deleteObject(g.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return g.fail("delete object", err)
	}
	return nil
}

func (g *Gateway) DeleteMany(ctx context.Context, keys []string) ([]storage.DeleteResult, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := deleteObjects(g.client, ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(g.bucket),
		Delete: &types.Delete{Objects: ids},
	})
	if err != nil {
		return nil, g.fail("delete objects", err)
	}

	failed := make(map[string]error, len(out.Errors))
	for _, e := range out.Errors {
		failed[aws.ToString(e.Key)] = fmt.Errorf("%w: %s", common.ErrorUpstreamStorage, aws.ToString(e.Message))
	}

	results := make([]storage.DeleteResult, 0, len(keys))
	for _, k := range keys {
		results = append(results, storage.DeleteResult{Key: k, Err: failed[k]})
	}
	return results, nil
}

func (g *Gateway) PutMarker(ctx context.Context, key string) error {
	_, err := putObject(g.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return g.fail("put marker", err)
	}
	return nil
}

// fail converts any SDK error into the uniform upstream-storage sentinel so
// transport details never leak past the gateway.
func (g *Gateway) fail(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrorUpstreamStorage, op, err)
}
