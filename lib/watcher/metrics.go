package watcher

import "sync"

type tickMetrics struct {
	mu        sync.Mutex
	evaluated int
	skipped   int // held back by an in-flight lease
	detected  int
	deduped   int
	notified  int
	dropped   int // ledger written but the send failed
	errored   int
}

func (m *tickMetrics) Skip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped++
}

func (m *tickMetrics) Add(other *evalMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluated++
	m.detected += other.detected
	m.deduped += other.deduped
	m.notified += other.notified
	m.dropped += other.dropped
	m.errored += other.errored
}

type evalMetrics struct {
	detected int
	deduped  int
	notified int
	dropped  int
	errored  int
}
