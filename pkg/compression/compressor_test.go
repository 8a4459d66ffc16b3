package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/synthdata/pkg/errors"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("id,name,born\n1,ada,1815-12-10\n", 200))

	for _, alg := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, alg, level)
				require.NoError(t, err)
				_, err = w.Write(payload)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(payload))
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				assert.Equal(t, payload, got)
			})
		}
	}
}

func TestFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"people.csv":        None,
		"people.csv.gz":     Gzip,
		"s3://b/k.jsonl.ZST": Zstd,
		"out.avro.snappy":   Snappy,
		"x.lz4":             LZ4,
		"x.s2":              S2,
		"x.deflate":         Deflate,
	}
	for p, want := range tests {
		assert.Equal(t, want, FromPath(p), p)
	}
	assert.Equal(t, "people.csv", TrimExtension("people.csv.gz"))
	assert.Equal(t, "people.csv", TrimExtension("people.csv"))
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	alg, err = ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	_, err = ParseAlgorithm("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewWriter(io.Discard, Algorithm("brotli"), Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNewReader_Corrupt(t *testing.T) {
	_, err := NewReader(strings.NewReader("not gzip"), Gzip)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
