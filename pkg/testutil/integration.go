package testutil

import (
	"os"
	"testing"
)

// Environment variables holding connection strings for integration tests.
const (
	PostgresDSNEnv = "SYNTHDATA_TEST_POSTGRES_DSN"
	MySQLDSNEnv    = "SYNTHDATA_TEST_MYSQL_DSN"
	MongoURIEnv    = "SYNTHDATA_TEST_MONGO_URI"
	KafkaBrokerEnv = "SYNTHDATA_TEST_KAFKA_BROKER"
)

// IntegrationDSN returns the value of env or skips the test when it is
// unset or the run is -short.
func IntegrationDSN(t *testing.T, env string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv(env)
	if dsn == "" {
		t.Skipf("Skipping integration test: %s not set", env)
	}
	return dsn
}
