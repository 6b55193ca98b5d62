package services

import (
	"context"
	"sync"
)

// MockLLMService is a mock implementation of LLMService for testing.
type MockLLMService struct {
	InitModelFunc          func(ctx context.Context, modelName string) error
	GenerateStructuredFunc func(ctx context.Context, req GenerationRequest) (string, error)

	// Track calls for testing
	InitModelCalls          []string
	GenerateStructuredCalls []GenerationRequest

	mu sync.Mutex // protects all fields above
}

// NewMockLLMService creates a new mock LLM service.
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		InitModelCalls:          make([]string, 0),
		GenerateStructuredCalls: make([]GenerationRequest, 0),
	}
}

// InitModel mocks model initialization.
func (m *MockLLMService) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// GenerateStructured mocks a generation call. Without an override it
// returns a minimal well-formed game payload.
func (m *MockLLMService) GenerateStructured(ctx context.Context, req GenerationRequest) (string, error) {
	m.mu.Lock()
	fn := m.GenerateStructuredFunc
	m.GenerateStructuredCalls = append(m.GenerateStructuredCalls, req)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return MockGameJSON, nil
}

// CallCount returns the number of generation calls made so far.
func (m *MockLLMService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateStructuredCalls)
}

// MockGameJSON is a well-formed generation payload used as the mock's
// default response and by handler tests.
const MockGameJSON = `{
  "title": "Voyage Through the Cell",
  "description": "Explore the organelles that keep a cell alive.",
  "theme": "space",
  "questions": [
    {"id": "q1", "prompt": "Which organelle produces most of the cell's ATP?", "options": ["Mitochondria", "Nucleus", "Ribosome", "Lysosome"], "correctIndex": 0, "explanation": "Mitochondria carry out cellular respiration.", "concept": "organelle function"},
    {"id": "q2", "prompt": "Where is genetic material stored?", "options": ["Cytoplasm", "Nucleus", "Cell wall", "Vacuole"], "correctIndex": 1, "explanation": "The nucleus houses the cell's DNA.", "concept": "organelle function"},
    {"id": "q3", "prompt": "Which structure assembles proteins?", "options": ["Golgi body", "Chloroplast", "Ribosome", "Membrane"], "correctIndex": 2, "explanation": "Ribosomes translate mRNA into protein.", "concept": "protein synthesis"},
    {"id": "q4", "prompt": "What does the cell membrane control?", "options": ["Photosynthesis", "Cell division", "Energy storage", "What enters and leaves the cell"], "correctIndex": 3, "explanation": "The membrane is selectively permeable.", "concept": "transport"},
    {"id": "q5", "prompt": "Which organelle packages and ships proteins?", "options": ["Golgi body", "Nucleolus", "Mitochondria", "Centriole"], "correctIndex": 0, "explanation": "The Golgi body modifies and routes proteins.", "concept": "protein synthesis", "misconception": "Students often credit the ribosome with shipping as well as assembly."}
  ]
}`
