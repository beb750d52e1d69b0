package memory

import (
	"sort"
	"sync"
	"time"

	"grayscope/internal/logger"
)

// Manager keeps an account of live native Mats. It satisfies
// safe.MemoryTracker and reports anything still open at Cleanup.
type Manager struct {
	allocations map[uint64]*AllocationRecord
	mu          sync.RWMutex
	stats       Stats
	logger      logger.Logger
}

type AllocationRecord struct {
	Tag       string
	Size      int64
	CreatedAt time.Time
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PeakBytes      int64
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Manager{
		allocations: make(map[uint64]*AllocationRecord),
		logger:      log,
	}
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocations[id] = &AllocationRecord{Tag: tag, Size: size, CreatedAt: time.Now()}
	m.stats.TotalAllocated += size
	m.stats.ActiveMats++
	if live := m.stats.TotalAllocated - m.stats.TotalReleased; live > m.stats.PeakBytes {
		m.stats.PeakBytes = live
	}
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.allocations[id]
	if !exists {
		m.logger.Warning("MemoryManager", "release of untracked Mat", map[string]interface{}{
			"id":  id,
			"tag": tag,
		})
		return
	}

	delete(m.allocations, id)
	m.stats.TotalReleased += record.Size
	m.stats.ActiveMats--
}

func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// Live lists the tags of Mats not yet released, sorted.
func (m *Manager) Live() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]string, 0, len(m.allocations))
	for _, r := range m.allocations {
		tags = append(tags, r.Tag)
	}
	sort.Strings(tags)
	return tags
}

// Cleanup logs a summary and one warning per Mat still open. It returns
// the number of leaked Mats.
func (m *Manager) Cleanup() int {
	live := m.Live()
	stats := m.GetStats()

	for _, tag := range live {
		m.logger.Warning("MemoryManager", "Mat still open at shutdown", map[string]interface{}{
			"tag": tag,
		})
	}

	m.logger.Info("MemoryManager", "memory summary", map[string]interface{}{
		"allocated_bytes": stats.TotalAllocated,
		"released_bytes":  stats.TotalReleased,
		"peak_bytes":      stats.PeakBytes,
		"leaked_mats":     len(live),
	})
	return len(live)
}
