package services

import (
	"context"
	"errors"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
)

type fakeSubscription struct {
	userID   string
	status   vo.SubscriptionStatus
	start    time.Time
	end      *time.Time
	price    decimal.Decimal
	cycle    vo.BillingCycle
	planName string
}

type fakeTransaction struct {
	userID string
	txType vo.TransactionType
	amount decimal.Decimal
	date   time.Time
}

// fakeReader evaluates the read-model queries over in-memory rows and counts
// how often each query runs.
type fakeReader struct {
	mu    sync.Mutex
	subs  []fakeSubscription
	txns  []fakeTransaction
	err   error
	calls map[string]*atomic.Int64
	// gate, when set, blocks ListActiveSubscriptions until closed.
	gate chan struct{}
}

func newFakeReader() *fakeReader {
	calls := make(map[string]*atomic.Int64)
	for _, name := range []string{"ListActiveSubscriptions", "CountAliveAt", "CountCanceledWithin",
		"CountActive", "ListLifespans", "SumTransactions", "ListTransactionAmounts", "PlanDistribution"} {
		calls[name] = new(atomic.Int64)
	}
	return &fakeReader{calls: calls}
}

func (f *fakeReader) addSubscription(s fakeSubscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, s)
}

func (f *fakeReader) addTransaction(t fakeTransaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txns = append(f.txns, t)
}

func (f *fakeReader) setStatus(userID string, status vo.SubscriptionStatus, end *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.subs {
		if f.subs[i].userID == userID {
			f.subs[i].status = status
			f.subs[i].end = end
		}
	}
}

func (f *fakeReader) count(name string) int64 {
	return f.calls[name].Load()
}

func (f *fakeReader) snapshot(name string) ([]fakeSubscription, []fakeTransaction, error) {
	f.calls[name].Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeSubscription(nil), f.subs...), append([]fakeTransaction(nil), f.txns...), f.err
}

func (f *fakeReader) ListActiveSubscriptions(_ context.Context, userID string, r *vo.DateRange) ([]metrics.PricedSubscription, error) {
	if f.gate != nil {
		<-f.gate
	}
	subs, _, err := f.snapshot("ListActiveSubscriptions")
	if err != nil {
		return nil, err
	}
	var out []metrics.PricedSubscription
	for _, s := range subs {
		if s.userID != userID || s.status != vo.StatusActive {
			continue
		}
		if r != nil && !r.Contains(s.start) {
			continue
		}
		out = append(out, metrics.PricedSubscription{StartDate: s.start, Price: s.price, BillingCycle: s.cycle})
	}
	return out, nil
}

func (f *fakeReader) CountAliveAt(_ context.Context, userID string, at time.Time) (int64, error) {
	subs, _, err := f.snapshot("CountAliveAt")
	if err != nil {
		return 0, err
	}
	var n int64
	for _, s := range subs {
		if s.userID == userID && !s.start.After(at) && (s.end == nil || !s.end.Before(at)) {
			n++
		}
	}
	return n, nil
}

func (f *fakeReader) CountCanceledWithin(_ context.Context, userID string, r vo.DateRange) (int64, error) {
	subs, _, err := f.snapshot("CountCanceledWithin")
	if err != nil {
		return 0, err
	}
	var n int64
	for _, s := range subs {
		if s.userID == userID && s.status == vo.StatusCanceled && s.end != nil && r.Contains(*s.end) {
			n++
		}
	}
	return n, nil
}

func (f *fakeReader) CountActive(_ context.Context, userID string, r *vo.DateRange) (int64, error) {
	subs, _, err := f.snapshot("CountActive")
	if err != nil {
		return 0, err
	}
	var n int64
	for _, s := range subs {
		if s.userID != userID || s.status != vo.StatusActive {
			continue
		}
		if r != nil && !r.Overlaps(s.start, s.end) {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeReader) ListLifespans(_ context.Context, userID string) ([]metrics.Period, error) {
	subs, _, err := f.snapshot("ListLifespans")
	if err != nil {
		return nil, err
	}
	var out []metrics.Period
	for _, s := range subs {
		if s.userID == userID && s.status.CountsTowardLifespan() {
			out = append(out, metrics.Period{Start: s.start, End: s.end})
		}
	}
	return out, nil
}

func (f *fakeReader) SumTransactions(_ context.Context, userID string, types []vo.TransactionType, r *vo.DateRange) (decimal.Decimal, error) {
	_, txns, err := f.snapshot("SumTransactions")
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range txns {
		if t.userID == userID && hasType(types, t.txType) && (r == nil || r.Contains(t.date)) {
			total = total.Add(t.amount)
		}
	}
	return total, nil
}

func (f *fakeReader) ListTransactionAmounts(_ context.Context, userID string, types []vo.TransactionType, r vo.DateRange) ([]metrics.DatedAmount, error) {
	_, txns, err := f.snapshot("ListTransactionAmounts")
	if err != nil {
		return nil, err
	}
	var out []metrics.DatedAmount
	for _, t := range txns {
		if t.userID == userID && hasType(types, t.txType) && r.Contains(t.date) {
			out = append(out, metrics.DatedAmount{Date: t.date, Amount: t.amount})
		}
	}
	return out, nil
}

func (f *fakeReader) PlanDistribution(_ context.Context, userID string, r vo.DateRange) ([]metrics.PlanShare, error) {
	subs, _, err := f.snapshot("PlanDistribution")
	if err != nil {
		return nil, err
	}
	byPlan := map[string]*metrics.PlanShare{}
	var order []string
	for _, s := range subs {
		if s.userID != userID || s.status != vo.StatusActive || !r.Overlaps(s.start, s.end) {
			continue
		}
		share, ok := byPlan[s.planName]
		if !ok {
			share = &metrics.PlanShare{PlanName: s.planName, Revenue: decimal.Zero}
			byPlan[s.planName] = share
			order = append(order, s.planName)
		}
		share.Subscriptions++
		share.Revenue = share.Revenue.Add(s.price)
	}
	out := make([]metrics.PlanShare, 0, len(order))
	for _, name := range order {
		out = append(out, *byPlan[name])
	}
	return out, nil
}

func hasType(types []vo.TransactionType, t vo.TransactionType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

var errCacheDown = errors.New("cache unavailable")

// fakeCache is a map-backed MetricCache whose operations can be made to fail.
type fakeCache struct {
	mu        sync.Mutex
	entries   map[string]string
	ttls      map[string]time.Duration
	failGet   bool
	failSet   bool
	failPurge bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return "", false, errCacheDown
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errCacheDown
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPurge {
		return 0, errCacheDown
	}
	var n int64
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	return out
}

type countingRecorder struct {
	hits, misses, computations atomic.Int64
}

func (r *countingRecorder) CacheHit(string)  { r.hits.Add(1) }
func (r *countingRecorder) CacheMiss(string) { r.misses.Add(1) }
func (r *countingRecorder) ObserveComputation(string, time.Duration, error) {
	r.computations.Add(1)
}
