package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
)

func newGCSClient(ctx context.Context, cfg config.StorageConfig) (*storage.Client, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create GCS client")
	}
	return client, nil
}

// gcsReader closes the client together with the object reader.
type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func openGCSReader(ctx context.Context, loc Location, cfg config.StorageConfig) (io.ReadCloser, error) {
	client, err := newGCSClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r, err := client.Bucket(loc.Bucket).Object(loc.Key).NewReader(ctx)
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read GCS object").
			WithDetail("bucket", loc.Bucket).
			WithDetail("object", loc.Key)
	}
	return &gcsReader{Reader: r, client: client}, nil
}

type gcsWriter struct {
	*storage.Writer
	client *storage.Client
	loc    Location
}

func (w *gcsWriter) Close() error {
	err := w.Writer.Close()
	_ = w.client.Close()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to write GCS object").
			WithDetail("bucket", w.loc.Bucket).
			WithDetail("object", w.loc.Key)
	}
	return nil
}

func openGCSWriter(ctx context.Context, loc Location, cfg config.StorageConfig) (io.WriteCloser, error) {
	client, err := newGCSClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	w := client.Bucket(loc.Bucket).Object(loc.Key).NewWriter(ctx)
	return &gcsWriter{Writer: w, client: client, loc: loc}, nil
}
