// Package storage opens byte streams on local files, standard input/output,
// Amazon S3 objects and Google Cloud Storage objects, addressed by one URI
// string, optionally through a compression codec.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/synthdata/pkg/compression"
	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
)

// Scheme identifies the backend of a URI.
type Scheme string

const (
	SchemeFile  Scheme = "file"
	SchemeStdio Scheme = "stdio"
	SchemeS3    Scheme = "s3"
	SchemeGCS   Scheme = "gs"
)

// Location is a parsed URI.
type Location struct {
	Scheme Scheme
	// Bucket is empty for local files and stdio
	Bucket string
	// Key is the object key or the local path
	Key string
}

// Parse splits uri into scheme, bucket and key. "-" means standard input or
// output; anything without a known scheme is a local path.
func Parse(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New(errors.ErrorTypeConfig, "empty path")
	}
	if uri == "-" {
		return Location{Scheme: SchemeStdio}, nil
	}
	for _, scheme := range []Scheme{SchemeS3, SchemeGCS} {
		prefix := string(scheme) + "://"
		if !strings.HasPrefix(uri, prefix) {
			continue
		}
		bucket, key, _ := strings.Cut(strings.TrimPrefix(uri, prefix), "/")
		if bucket == "" || key == "" {
			return Location{}, errors.Newf(errors.ErrorTypeConfig, "invalid %s uri %q: want %sbucket/key", scheme, uri, prefix)
		}
		return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
	}
	return Location{Scheme: SchemeFile, Key: strings.TrimPrefix(uri, "file://")}, nil
}

// OpenReader opens uri for reading.
func OpenReader(ctx context.Context, uri string, cfg config.StorageConfig) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	switch loc.Scheme {
	case SchemeStdio:
		return io.NopCloser(os.Stdin), nil
	case SchemeS3:
		return openS3Reader(ctx, loc, cfg)
	case SchemeGCS:
		return openGCSReader(ctx, loc, cfg)
	}
	f, err := os.Open(loc.Key) //nolint:gosec // G304: path comes from job configuration
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").WithDetail("path", loc.Key)
	}
	return f, nil
}

// OpenWriter opens uri for writing, truncating local files. Object uploads
// complete when the writer is closed; Close reports upload failures.
func OpenWriter(ctx context.Context, uri string, cfg config.StorageConfig) (io.WriteCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	switch loc.Scheme {
	case SchemeStdio:
		return nopWriteCloser{os.Stdout}, nil
	case SchemeS3:
		return openS3Writer(ctx, loc, cfg)
	case SchemeGCS:
		return openGCSWriter(ctx, loc, cfg)
	}
	if dir := filepath.Dir(loc.Key); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create directory").WithDetail("path", dir)
		}
	}
	f, err := os.Create(loc.Key) //nolint:gosec // G304: path comes from job configuration
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create file").WithDetail("path", loc.Key)
	}
	return f, nil
}

// OpenDecompressed opens uri and decompresses it with the named algorithm,
// or the algorithm implied by the extension when name is empty.
func OpenDecompressed(ctx context.Context, uri, name string, cfg config.StorageConfig) (io.ReadCloser, error) {
	alg, err := resolveAlgorithm(uri, name)
	if err != nil {
		return nil, err
	}
	raw, err := OpenReader(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}
	r, err := compression.NewReader(raw, alg)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	return &stackedReader{ReadCloser: r, under: raw}, nil
}

// OpenCompressed opens uri for writing through the named algorithm, or the
// algorithm implied by the extension when name is empty.
func OpenCompressed(ctx context.Context, uri, name string, cfg config.StorageConfig) (io.WriteCloser, error) {
	alg, err := resolveAlgorithm(uri, name)
	if err != nil {
		return nil, err
	}
	raw, err := OpenWriter(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}
	w, err := compression.NewWriter(raw, alg, compression.Default)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	return &stackedWriter{WriteCloser: w, under: raw}, nil
}

func resolveAlgorithm(uri, name string) (compression.Algorithm, error) {
	if name == "" {
		return compression.FromPath(uri), nil
	}
	return compression.ParseAlgorithm(name)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// stackedReader closes the codec then the underlying stream.
type stackedReader struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReader) Close() error {
	err := s.ReadCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}

// stackedWriter flushes the codec then closes the underlying stream.
type stackedWriter struct {
	io.WriteCloser
	under io.Closer
}

func (s *stackedWriter) Close() error {
	err := s.WriteCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}
