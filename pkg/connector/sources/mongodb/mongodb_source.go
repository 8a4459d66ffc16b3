// Package mongodb provides the MongoDB collection source connector.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/connector/shared"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	"github.com/ajitpratap0/synthdata/pkg/models"
)

func init() {
	_ = registry.RegisterSource(registry.ConnectorInfo{
		Name:         "mongodb",
		Description:  "MongoDB collection (top-level fields; nested documents read as JSON text)",
		Capabilities: []string{"collection", "limit"},
	}, NewMongoDBSource)
}

// MongoDBSource reads the documents of one collection.
type MongoDBSource struct {
	*base.BaseConnector

	dataset string
	cfg     config.SourceConfig
	client  *mongo.Client
}

// NewMongoDBSource creates a new MongoDB source connector
func NewMongoDBSource(cfg *config.Config) (core.Source, error) {
	if cfg.Source.DSN == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mongodb source requires dsn")
	}
	if cfg.Source.Database == "" || cfg.Source.Collection == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mongodb source requires database and collection")
	}
	return &MongoDBSource{
		BaseConnector: base.NewBaseConnector("mongodb", core.ConnectorTypeSource),
		dataset:       cfg.Name,
		cfg:           cfg.Source,
	}, nil
}

// Read loads every document of the collection, up to the configured limit.
func (s *MongoDBSource) Read(ctx context.Context) (*models.Dataset, error) {
	ctx, span := s.Tracer().StartSpan(ctx, "read")
	defer span.End()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.connect(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	findOpts := options.Find()
	if s.cfg.Limit > 0 {
		findOpts.SetLimit(int64(s.cfg.Limit))
	}
	coll := s.client.Database(s.cfg.Database).Collection(s.cfg.Collection)
	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to query collection").
			WithDetail("collection", s.cfg.Collection)
	}
	defer cursor.Close(ctx)

	var records []*models.Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode document").
				WithDetail("document", len(records))
		}
		records = append(records, toRecord(doc))
	}
	if err := cursor.Err(); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "cursor failed")
	}

	ds := models.NewDataset(s.dataset, nil, records)
	span.SetAttribute("records", ds.Len())
	s.RecordRead(ds.Len())
	s.GetLogger().Info("MongoDB source read",
		zap.String("collection", s.cfg.Collection),
		zap.Int("records", ds.Len()))
	return ds, nil
}

func (s *MongoDBSource) connect(ctx context.Context) error {
	clientOpts := options.Client().ApplyURI(s.cfg.DSN)
	if err := clientOpts.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid mongodb uri")
	}
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to create MongoDB client")
	}
	if err := s.Connect(ctx, func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}
	s.client = client
	return nil
}

// Close disconnects the client
func (s *MongoDBSource) Close() error {
	if !s.MarkClosed() || s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to disconnect MongoDB client")
	}
	return nil
}

func toRecord(doc bson.M) *models.Record {
	data := make(map[string]any, len(doc))
	for k, v := range doc {
		data[k] = convertBSONValue(v)
	}
	return models.NewRecord(data)
}

// convertBSONValue maps BSON values to the shapes the models understand.
func convertBSONValue(value any) any {
	switch v := value.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.Decimal128:
		return v.String()
	case primitive.Binary:
		return string(v.Data)
	case bson.M:
		return shared.JSONText(plain(v))
	case bson.D:
		return shared.JSONText(plain(docMap(v)))
	case bson.A:
		return shared.JSONText(plainSlice(v))
	default:
		return v
	}
}

// plain converts nested BSON containers to plain maps and slices for JSON
// encoding.
func plain(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func docMap(d bson.D) map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

func plainSlice(a []any) []any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch x := v.(type) {
	case bson.M:
		return plain(x)
	case bson.D:
		return plain(docMap(x))
	case bson.A:
		return plainSlice(x)
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return x.String()
	}
	return v
}
