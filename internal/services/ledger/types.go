package ledger

import (
	"context"
	"time"
)

// Decision is the counterparty's answer to a pending request.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// Config holds configuration for ledger operations.
type Config struct {
	// ProcessingTimeout bounds every engine operation. Lock or
	// transaction waits past the deadline surface as ErrTimeout.
	ProcessingTimeout time.Duration
}

// CacheInvalidator drops cached account reads after a committed balance
// change. The redis cache service implements it.
type CacheInvalidator interface {
	InvalidateAccounts(ctx context.Context, ids ...uint) error
}

// NoopCacheInvalidator is used when no cache is configured.
type NoopCacheInvalidator struct{}

func (NoopCacheInvalidator) InvalidateAccounts(context.Context, ...uint) error { return nil }

// MetricsCollector defines the interface for collecting ledger metrics.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType string, amount int64)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordTransaction(string, int64)               {}
func (NoopMetricsCollector) RecordError(string, string)                    {}
