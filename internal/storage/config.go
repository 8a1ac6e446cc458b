package storage

import (
	"os"
	"strconv"
)

// DynamoMode represents the data source connection mode
type DynamoMode string

const (
	DynamoModeLocal  DynamoMode = "local"
	DynamoModeAWS    DynamoMode = "aws"
	DynamoModeMemory DynamoMode = "memory"
)

// DefaultPageSize is the number of records requested per page
const DefaultPageSize = 1000

// DynamoConfig holds data source configuration
type DynamoConfig struct {
	Mode          DynamoMode
	Endpoint      string // for local mode
	Region        string
	LeadsTable    string
	CallsTable    string
	MemoryFixture string // JSON fixture for memory mode
	PageSize      int
}

// LoadDynamoConfig loads data source config from environment
func LoadDynamoConfig() DynamoConfig {
	mode := DynamoMode(getEnv("DYNAMO_MODE", "memory"))
	if mode != DynamoModeLocal && mode != DynamoModeAWS {
		mode = DynamoModeMemory
	}

	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return DynamoConfig{
		Mode:          mode,
		Endpoint:      getEnv("DYNAMO_ENDPOINT", "http://localhost:8000"),
		Region:        getEnv("DYNAMO_REGION", "us-west-2"),
		LeadsTable:    getEnv("DYNAMO_LEADS_TABLE", "recovery-leads"),
		CallsTable:    getEnv("DYNAMO_CALLS_TABLE", "recovery-calls"),
		MemoryFixture: getEnv("MEMORY_FIXTURE", ""),
		PageSize:      pageSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
