// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/pkg/errors"

	"github.com/keshava/quilt/pkg/apis/config"
	"github.com/keshava/quilt/pkg/util"
)

const (
	// maxRetry prevents long-running invocations due to malformed calls.
	maxRetry = 10

	backoffMultiplier = 2
	backoffMin        = 4 * time.Second
	backoffMax        = 30 * time.Second

	// lowWater is the remaining invocation budget below which a warning is
	// emitted; at that point the caller should have shrunk its batch size.
	lowWater = 30 * time.Second

	// appName is sent as part of the user agent so that the indexer's own
	// GetObject and HeadObject calls can be filtered out of object access
	// analytics.
	appName = "quilt-go-indexer"
)

// ErrObjectUnavailable marks retry exhaustion against an object that has not
// converged to the notified version.
var ErrObjectUnavailable = errors.New("object unavailable")

// ObjectRef identifies one object version referenced by a change notification.
// Reads are pinned to VersionID when present and to the ETag precondition
// otherwise; both defend against eventual-consistency windows where the store
// has not converged to the notified version yet.
type ObjectRef struct {
	Bucket    string
	Key       string
	ETag      string
	VersionID string

	// Size is the object size hint from a previous Head. A ranged Fetch is
	// only possible for non-empty objects.
	Size int64
}

// ObjectInfo is the subset of object state the indexer consumes.
type ObjectInfo struct {
	Size         int64
	LastModified time.Time
	Metadata     map[string]string
}

// Client is an interface to interact with a S3 object store.
type Client interface {
	// Head resolves size, modification time and object metadata of the
	// referenced object version.
	Head(ctx context.Context, ref ObjectRef) (*ObjectInfo, error)

	// Fetch reads the content of the referenced object version, scoped to the
	// byte range [0, limit] when the object is non-empty.
	Fetch(ctx context.Context, ref ObjectRef, limit int64) ([]byte, error)
}

type client struct {
	log         logr.Logger
	minioClient *minio.Client
	budget      util.TimeBudget

	lowWaterOnce sync.Once
}

// New creates a new s3 client which is a wrapper of the minio client.
// All reads retry with exponential backoff until either maxRetry attempts or
// the remaining invocation budget is exhausted, whichever comes first.
func New(log logr.Logger, cfg config.S3, budget util.TimeBudget) (Client, error) {
	minioClient, err := newMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	return &client{
		log:         log,
		minioClient: minioClient,
		budget:      budget,
	}, nil
}

// Listen subscribes to change notifications of the given bucket and yields
// event batches until the context is cancelled.
func Listen(ctx context.Context, cfg config.S3, bucket string, events []string) (<-chan notification.Info, error) {
	minioClient, err := newMinioClient(cfg)
	if err != nil {
		return nil, err
	}
	return minioClient.ListenBucketNotification(ctx, bucket, "", "", events), nil
}

func newMinioClient(cfg config.S3) (*minio.Client, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewIAM("")
	}

	minioClient, err := minio.New(cfg.Server.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.Server.SSL,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create s3 client for %s", cfg.Server.Endpoint)
	}
	minioClient.SetAppInfo(appName, "")
	return minioClient, nil
}

func (c *client) Head(ctx context.Context, ref ObjectRef) (*ObjectInfo, error) {
	var info *ObjectInfo
	err := c.retry(ctx, "head", ref, func() error {
		stat, err := c.minioClient.StatObject(ctx, ref.Bucket, ref.Key, minio.StatObjectOptions(ref.options(false, 0)))
		if err != nil {
			return err
		}
		info = &ObjectInfo{
			Size:         stat.Size,
			LastModified: stat.LastModified,
			Metadata:     stat.UserMetadata,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (c *client) Fetch(ctx context.Context, ref ObjectRef, limit int64) ([]byte, error) {
	var content []byte
	err := c.retry(ctx, "get", ref, func() error {
		obj, err := c.minioClient.GetObject(ctx, ref.Bucket, ref.Key, ref.options(true, limit))
		if err != nil {
			return err
		}
		defer func() { _ = obj.Close() }()

		data, err := io.ReadAll(obj)
		if err != nil {
			return err
		}
		content = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// options builds version- or etag-pinned request options, optionally scoped to
// the byte range [0, limit].
func (ref ObjectRef) options(ranged bool, limit int64) minio.GetObjectOptions {
	opts := minio.GetObjectOptions{}
	if ref.VersionID != "" {
		opts.VersionID = ref.VersionID
	} else if ref.ETag != "" {
		_ = opts.SetMatchETag(ref.ETag)
	}
	if ranged && ref.Size > 0 {
		_ = opts.SetRange(0, limit)
	}
	return opts
}

// retry runs fn with exponential backoff. Exhaustion degrades to
// ErrObjectUnavailable which is fatal for the single event only, never for
// the whole batch.
func (c *client) retry(ctx context.Context, operation string, ref ObjectRef, fn func() error) error {
	remaining := c.budget.Remaining()
	if remaining < lowWater {
		// every subsequent read of a large batch would repeat the warning
		c.lowWaterOnce.Do(func() {
			c.log.Info("invocation has little time remaining, consider reducing the batch size",
				"remaining", remaining.String())
		})
	}
	deadline := time.Now().Add(remaining)

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		wait := backoffWait(attempt)
		if attempt == maxRetry || time.Now().Add(wait).After(deadline) {
			break
		}
		c.log.V(3).Info("retrying s3 operation", "operation", operation,
			"bucket", ref.Bucket, "key", ref.Key, "attempt", attempt, "wait", wait.String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return errors.Wrapf(ErrObjectUnavailable, "%s s3://%s/%s (version %q): %s",
		operation, ref.Bucket, ref.Key, ref.VersionID, lastErr)
}

func backoffWait(attempt int) time.Duration {
	wait := time.Duration(backoffMultiplier<<(attempt-1)) * time.Second
	if wait < backoffMin {
		wait = backoffMin
	}
	if wait > backoffMax {
		wait = backoffMax
	}
	return wait
}
