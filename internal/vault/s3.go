package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"dm-go/internal/market"
)

// S3Vault is an S3-backed implementation of the ContentVault interface.
// Object layout mirrors the filesystem vault:
//
//	<prefix>/content/<checksum>
//	<prefix>/metadata/<hostID>.<name>
//	<prefix>/metadata/<hostID>.<name>.version
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Vault creates a new S3 vault. Static credentials take precedence
// when provided; otherwise the default AWS credential chain is used.
func NewS3Vault(ctx context.Context, name, bucket, prefix, region, accessKeyID, secretAccessKey string) (*S3Vault, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if accessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Vault{
		name:     name,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// NewS3VaultWithClient creates an S3 vault around an existing client.
// Used by tests with a stubbed or localstack-backed client.
func NewS3VaultWithClient(name, bucket, prefix string, client *s3.Client) *S3Vault {
	return &S3Vault{
		name:     name,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

func (v *S3Vault) contentKey(checksum string) string {
	return path.Join(v.prefix, "content", checksum)
}

func (v *S3Vault) metadataKey(hostID, name string) string {
	return path.Join(v.prefix, "metadata", hostID+"."+name)
}

// exists checks whether an object is already present.
func (v *S3Vault) exists(ctx context.Context, key string) (bool, error) {
	_, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &v.bucket,
		Key:    &key,
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s: %w", key, err)
	}
	return true, nil
}

func (v *S3Vault) upload(ctx context.Context, key string, r io.Reader) error {
	_, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &v.bucket,
		Key:    &key,
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (v *S3Vault) download(ctx context.Context, key string, w io.Writer, notFoundMsg string) error {
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &v.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("%s", notFoundMsg)
		}
		return fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return nil
}

// PutContent stores content identified by its checksum.
// The operation is idempotent: storing the same checksum multiple times is safe.
func (v *S3Vault) PutContent(checksum string, r io.Reader, size int64) error {
	ctx := context.Background()
	key := v.contentKey(checksum)

	// If content already exists, skip (idempotent)
	found, err := v.exists(ctx, key)
	if err != nil {
		return err
	}
	if found {
		// Consume the reader to maintain expected behavior
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}

	return v.upload(ctx, key, r)
}

// GetContent retrieves content by checksum and writes it to w.
func (v *S3Vault) GetContent(checksum string, w io.Writer) error {
	key := v.contentKey(checksum)
	return v.download(context.Background(), key, w, fmt.Sprintf("content not found: %s", checksum))
}

// PutMetadata stores a named metadata item for a host along with a version marker.
func (v *S3Vault) PutMetadata(hostID string, name string, r io.Reader, size int64, version int64) error {
	ctx := context.Background()
	key := v.metadataKey(hostID, name)

	if err := v.upload(ctx, key, r); err != nil {
		return err
	}

	versionData := strconv.FormatInt(version, 10)
	return v.upload(ctx, key+".version", strings.NewReader(versionData))
}

// GetMetadataVersion returns the metadata version for a named item on a host.
// Returns 0 if no version object exists.
func (v *S3Vault) GetMetadataVersion(hostID string, name string) (int64, error) {
	ctx := context.Background()
	key := v.metadataKey(hostID, name) + ".version"

	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &v.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get version object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read version object: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// GetMetadata retrieves a named metadata item for a host and writes it to w.
func (v *S3Vault) GetMetadata(hostID string, name string, w io.Writer) error {
	key := v.metadataKey(hostID, name)
	return v.download(context.Background(), key, w,
		fmt.Sprintf("metadata %q not found for host: %s", name, hostID))
}

// ValidateSetup verifies that the bucket is reachable with the current credentials.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: &v.bucket,
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

// Compile-time check that S3Vault implements market.ContentVault interface
var _ market.ContentVault = (*S3Vault)(nil)
