package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records metrics for repository operations.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ClickhouseRepository stores index rows in ClickHouse.
type ClickhouseRepository struct {
	conn    clickhouse.Conn
	metrics Metrics
}

// NewClickhouseRepository opens a ClickHouse connection from a DSN.
func NewClickhouseRepository(dsn string, metrics Metrics) (*ClickhouseRepository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &ClickhouseRepository{conn: conn, metrics: metrics}, nil
}
