package shared

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestJSONText(t *testing.T) {
	assert.Equal(t, `{"a":[1,"x"]}`, JSONText(map[string]any{"a": []any{1, "x"}}))
	assert.Equal(t, `[true]`, JSONText([]any{true}))
	assert.Equal(t, 5, JSONText(5))
	assert.Nil(t, JSONText(nil))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	assert.Equal(t, civil.Date{Year: 2020, Month: 2, Day: 29}, DateOf(time.Date(2020, 2, 29, 0, 0, 0, 0, loc)))
}

func TestUUIDString(t *testing.T) {
	b := [16]byte{0x12, 0x3e, 0x45, 0x67, 0xe8, 0x9b, 0x12, 0xd3, 0xa4, 0x56, 0x42, 0x66, 0x14, 0x17, 0x40, 0x00}
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", UUIDString(b))
}
