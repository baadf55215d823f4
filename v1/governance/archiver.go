package governance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiverConfig defines the configuration for the object-storage audit
// archiver.
type ArchiverConfig struct {
	// Endpoint is the S3-compatible endpoint, e.g. "minio:9000"
	Endpoint string `yaml:"endpoint"`

	// AccessKeyID and SecretAccessKey are the static credentials
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// UseSSL enables TLS for the endpoint
	UseSSL bool `yaml:"use_ssl"`

	// Region is the bucket region
	Region string `yaml:"region"`

	// BucketName is the bucket audit batches are written to
	BucketName string `yaml:"bucket_name"`

	// AllowBucketCreation creates the bucket on startup when it is missing
	AllowBucketCreation bool `yaml:"allow_bucket_creation"`

	// ObjectPrefix is prepended to every object key
	// Default: "audit/"
	ObjectPrefix string `yaml:"object_prefix"`

	// FlushInterval is how often buffered records are written out
	// Default: 30 seconds
	FlushInterval time.Duration `yaml:"flush_interval"`

	// MaxBatch flushes early once this many records are buffered
	// Default: 500
	MaxBatch int `yaml:"max_batch"`

	// Logger is an optional logger from v1/logger
	Logger Logger
}

// Default values for archiver configuration
const (
	DefaultObjectPrefix  = "audit/"
	DefaultFlushInterval = 30 * time.Second
	DefaultMaxBatch      = 500
)

// Archiver batches audit records and flushes them as JSON-lines objects to
// S3-compatible storage. Object keys are time partitioned
// (prefix/2006/01/02/...) so downstream jobs can scan by day.
//
// Archiver implements Sink.
type Archiver struct {
	cfg    ArchiverConfig
	client *minio.Client

	mu  sync.Mutex
	buf []Record

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup

	// put is swapped in tests
	put func(ctx context.Context, key string, data []byte) error
	now func() time.Time
}

// NewArchiver creates the audit archiver. Call Start to begin the flush
// loop (the fx module does this automatically).
func NewArchiver(cfg ArchiverConfig) (*Archiver, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archiver endpoint cannot be empty")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("archiver bucket name cannot be empty")
	}
	if cfg.ObjectPrefix == "" {
		cfg.ObjectPrefix = DefaultObjectPrefix
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultMaxBatch
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("archiver: failed to initialize object storage client: %w", err)
	}

	a := &Archiver{
		cfg:    cfg,
		client: client,
		done:   make(chan struct{}),
		now:    time.Now,
	}
	a.put = a.putObject
	return a, nil
}

// Start ensures the bucket exists and launches the periodic flush loop.
func (a *Archiver) Start(ctx context.Context) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(a.cfg.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-a.done:
				return
			case <-ticker.C:
				if err := a.Flush(context.Background()); err != nil && a.cfg.Logger != nil {
					a.cfg.Logger.Error("audit archive flush failed", err)
				}
			}
		}
	}()
	return nil
}

// Stop halts the flush loop and writes out any buffered records.
func (a *Archiver) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		close(a.done)
	})
	a.wg.Wait()
	return a.Flush(ctx)
}

// Write buffers one record, flushing early when the batch limit is reached.
func (a *Archiver) Write(ctx context.Context, record Record) error {
	a.mu.Lock()
	a.buf = append(a.buf, record)
	full := len(a.buf) >= a.cfg.MaxBatch
	a.mu.Unlock()

	if full {
		return a.Flush(ctx)
	}
	return nil
}

// Flush writes all buffered records as one JSON-lines object.
func (a *Archiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.buf
	a.buf = nil
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, record := range batch {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("archiver: encode record: %w", err)
		}
	}

	key := fmt.Sprintf("%s%s-%d.jsonl",
		a.cfg.ObjectPrefix,
		a.now().UTC().Format("2006/01/02/150405"),
		len(batch))

	if err := a.put(ctx, key, body.Bytes()); err != nil {
		// put the batch back so the next flush retries it
		a.mu.Lock()
		a.buf = append(batch, a.buf...)
		a.mu.Unlock()
		return fmt.Errorf("archiver: put %q: %w", key, err)
	}
	return nil
}

func (a *Archiver) putObject(ctx context.Context, key string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.cfg.BucketName, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/x-ndjson"})
	return err
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := a.client.BucketExists(ctx, a.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("archiver: failed to check if bucket exists, bucket: %v, err: %w", a.cfg.BucketName, err)
	}
	if exists {
		return nil
	}
	if !a.cfg.AllowBucketCreation {
		return fmt.Errorf("archiver: bucket %q does not exist, please create it manually", a.cfg.BucketName)
	}
	if err := a.client.MakeBucket(ctx, a.cfg.BucketName, minio.MakeBucketOptions{Region: a.cfg.Region}); err != nil {
		return fmt.Errorf("archiver: create bucket %q: %w", a.cfg.BucketName, err)
	}
	if a.cfg.Logger != nil {
		a.cfg.Logger.Info("created audit archive bucket", nil, map[string]interface{}{
			"bucket": a.cfg.BucketName,
		})
	}
	return nil
}

var _ Sink = (*Archiver)(nil)
