package helpers

import (
	"sync"

	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// MockRecorder counts the observations it receives
type MockRecorder struct {
	mu          sync.Mutex
	Generated   map[utility.Role]int
	Scores      map[utility.Role][]float64
	Sufficiency map[bool]int
	Evaluations int
	Truncations int
}

// NewMockRecorder creates an empty recorder
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		Generated:   make(map[utility.Role]int),
		Scores:      make(map[utility.Role][]float64),
		Sufficiency: make(map[bool]int),
	}
}

func (m *MockRecorder) RecordUtilityGenerated(role utility.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Generated[role]++
}

func (m *MockRecorder) RecordUtilityScore(role utility.Role, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scores[role] = append(m.Scores[role], value)
}

func (m *MockRecorder) RecordSufficiency(sufficient bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sufficiency[sufficient]++
}

func (m *MockRecorder) RecordOptimization(evaluated int, truncated bool, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evaluations += evaluated
	if truncated {
		m.Truncations++
	}
}
