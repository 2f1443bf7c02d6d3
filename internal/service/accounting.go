package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// UsageRecord is one recorded call against a configuration.
type UsageRecord struct {
	ID              string
	ConfigurationID string
	Tokens          int
	Cost            float64
	Timestamp       time.Time
}

// dayWindow accumulates counters for one rolling day.
type dayWindow struct {
	start    time.Time
	requests int
	tokens   int
	cost     float64
}

// MemoryAccounting is a process-local Accounting implementation. Counters are
// kept per configuration over a rolling 24h window; all increments happen
// under one lock so concurrent calls never undercount.
type MemoryAccounting struct {
	mu      sync.Mutex
	limits  map[string]llm.Configuration
	windows map[string]*dayWindow
	records []UsageRecord
	now     func() time.Time
}

// NewMemoryAccounting creates an accounting store enforcing the given
// configurations' limits.
func NewMemoryAccounting(configurations []llm.Configuration) *MemoryAccounting {
	limits := make(map[string]llm.Configuration, len(configurations))
	for _, c := range configurations {
		limits[c.ID] = c
	}
	return &MemoryAccounting{
		limits:  limits,
		windows: make(map[string]*dayWindow),
		now:     time.Now,
	}
}

// CheckQuota reports whether the configuration is within its daily ceilings.
// Unknown configurations and configurations without limits always pass.
func (a *MemoryAccounting) CheckQuota(_ context.Context, configurationID string) (QuotaStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, ok := a.limits[configurationID]
	if !ok || !cfg.HasLimits() {
		return QuotaStatus{WithinLimits: true}, nil
	}

	w := a.window(configurationID)
	if cfg.MaxRequestsPerDay > 0 && w.requests >= cfg.MaxRequestsPerDay {
		return QuotaStatus{Reason: fmt.Sprintf("daily request limit of %d reached", cfg.MaxRequestsPerDay)}, nil
	}
	if cfg.MaxTokensPerDay > 0 && w.tokens >= cfg.MaxTokensPerDay {
		return QuotaStatus{Reason: fmt.Sprintf("daily token limit of %d reached", cfg.MaxTokensPerDay)}, nil
	}
	if cfg.MaxCostPerDay > 0 && w.cost >= cfg.MaxCostPerDay {
		return QuotaStatus{Reason: fmt.Sprintf("daily cost limit of %.4f reached", cfg.MaxCostPerDay)}, nil
	}
	return QuotaStatus{WithinLimits: true}, nil
}

// RecordUsage increments the configuration's counters and appends a record.
func (a *MemoryAccounting) RecordUsage(_ context.Context, configurationID string, tokensUsed int, cost float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	w := a.window(configurationID)
	w.requests++
	w.tokens += tokensUsed
	w.cost += cost

	a.records = append(a.records, UsageRecord{
		ID:              uuid.NewString(),
		ConfigurationID: configurationID,
		Tokens:          tokensUsed,
		Cost:            cost,
		Timestamp:       a.now(),
	})
	return nil
}

// Records returns a copy of all recorded usage.
func (a *MemoryAccounting) Records() []UsageRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]UsageRecord, len(a.records))
	copy(out, a.records)
	return out
}

// window returns the current day window, rolling it over when stale. Callers
// must hold the lock.
func (a *MemoryAccounting) window(configurationID string) *dayWindow {
	w, ok := a.windows[configurationID]
	now := a.now()
	if !ok || now.Sub(w.start) >= 24*time.Hour {
		w = &dayWindow{start: now}
		a.windows[configurationID] = w
	}
	return w
}
