package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/errors"
)

func TestNewMongoDBSource_Validation(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Source.DSN = "mongodb://localhost:27017"
	_, err := NewMongoDBSource(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg.Source.Database = "shop"
	cfg.Source.Collection = "orders"
	src, err := NewMongoDBSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mongodb", src.Name())
	assert.NoError(t, src.Close())
}

func TestConvertBSONValue(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("65f1c0ffee0000000000abcd")
	require.NoError(t, err)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	assert.Nil(t, convertBSONValue(nil))
	assert.Nil(t, convertBSONValue(primitive.Null{}))
	assert.Equal(t, "65f1c0ffee0000000000abcd", convertBSONValue(oid))
	assert.Equal(t, at, convertBSONValue(primitive.NewDateTimeFromTime(at)))
	assert.Equal(t, int32(4), convertBSONValue(int32(4)))
	assert.Equal(t, `{"city":"Oslo","tags":["a","b"]}`,
		convertBSONValue(bson.M{"city": "Oslo", "tags": bson.A{"a", "b"}}))
	assert.Equal(t, `[1,{"k":"v"}]`, convertBSONValue(bson.A{int32(1), bson.D{{Key: "k", Value: "v"}}}))
}

func TestToRecord(t *testing.T) {
	r := toRecord(bson.M{"_id": int64(1), "name": "ada"})
	assert.Equal(t, map[string]any{"_id": int64(1), "name": "ada"}, r.Data)
}
