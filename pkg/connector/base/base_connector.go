// Package base provides the BaseConnector that source and destination
// connectors embed. It carries the connector identity, a scoped logger,
// record metrics, tracing, a retry policy for connection setup and a close
// guard.
//
// # Usage
//
//	type MySource struct {
//	    *base.BaseConnector
//	    // connector-specific fields
//	}
//
//	func NewMySource(cfg *config.Config) (core.Source, error) {
//	    return &MySource{
//	        BaseConnector: base.NewBaseConnector("my-source", core.ConnectorTypeSource),
//	    }, nil
//	}
package base

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/logger"
	"github.com/ajitpratap0/synthdata/pkg/metrics"
	"github.com/ajitpratap0/synthdata/pkg/observability"
)

// BaseConnector provides common functionality for all connectors.
type BaseConnector struct {
	name          string
	connectorType core.ConnectorType
	logger        *zap.Logger
	tracer        *observability.StageTracer
	retryPolicy   *RetryPolicy

	closed     bool
	closeMutex sync.Mutex
}

// NewBaseConnector creates a base connector with the given name and type.
func NewBaseConnector(name string, connectorType core.ConnectorType) *BaseConnector {
	return &BaseConnector{
		name:          name,
		connectorType: connectorType,
		logger: logger.Get().With(
			zap.String("connector", name),
			zap.String("type", string(connectorType))),
		tracer:      observability.NewStageTracer(string(connectorType), name),
		retryPolicy: DefaultRetryPolicy(),
	}
}

// Name returns the connector name
func (bc *BaseConnector) Name() string {
	return bc.name
}

// Type returns the connector type
func (bc *BaseConnector) Type() core.ConnectorType {
	return bc.connectorType
}

// GetLogger returns the connector-scoped logger
func (bc *BaseConnector) GetLogger() *zap.Logger {
	return bc.logger
}

// SetLogger replaces the logger, keeping the connector fields.
func (bc *BaseConnector) SetLogger(l *zap.Logger) {
	if l != nil {
		bc.logger = l.With(
			zap.String("connector", bc.name),
			zap.String("type", string(bc.connectorType)))
	}
}

// Tracer returns the connector's stage tracer
func (bc *BaseConnector) Tracer() *observability.StageTracer {
	return bc.tracer
}

// SetRetryPolicy replaces the policy used by Connect.
func (bc *BaseConnector) SetRetryPolicy(rp *RetryPolicy) {
	if rp != nil {
		bc.retryPolicy = rp
	}
}

// Connect runs fn under the retry policy. Configuration errors are not
// retried. The final error is wrapped as a connection error.
func (bc *BaseConnector) Connect(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	err := bc.retryPolicy.ExecuteWithCondition(ctx, func() error {
		attempt++
		err := fn(ctx)
		if err != nil {
			bc.logger.Warn("connection attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, func(err error) bool {
		return !errors.IsType(err, errors.ErrorTypeConfig)
	})
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeConfig) {
			return err
		}
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect").WithDetail("connector", bc.name)
	}
	return nil
}

// RecordRead counts records read by a source.
func (bc *BaseConnector) RecordRead(n int) {
	metrics.RecordsRead.WithLabelValues(bc.name).Add(float64(n))
}

// RecordWritten counts records written by a destination.
func (bc *BaseConnector) RecordWritten(n int) {
	metrics.RecordsWritten.WithLabelValues(bc.name).Add(float64(n))
}

// MarkClosed reports whether this call closed the connector; later calls
// return false so resources are released once.
func (bc *BaseConnector) MarkClosed() bool {
	bc.closeMutex.Lock()
	defer bc.closeMutex.Unlock()
	if bc.closed {
		return false
	}
	bc.closed = true
	return true
}

// IsClosed reports whether the connector has been closed.
func (bc *BaseConnector) IsClosed() bool {
	bc.closeMutex.Lock()
	defer bc.closeMutex.Unlock()
	return bc.closed
}
