// Package persistence stores Carl's learned weights and accumulated
// training examples across runs, file-backed the same way stormfinder's
// pkg/cache persists JSON blobs to disk.
package persistence

import (
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/codebooo/policyscout/internal/neural"
	"github.com/codebooo/policyscout/internal/perr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ModelStore persists and retrieves Carl's trained weights.
type ModelStore interface {
	Load() (*neural.Model, error)
	Save(model *neural.Model) error
}

// TrainingExampleStore persists accumulated labeled examples between
// training runs.
type TrainingExampleStore interface {
	LoadAll() ([]neural.TrainingExample, error)
	Append(examples ...neural.TrainingExample) error
}

// FileModelStore reads/writes a single JSON file containing Carl's
// model, versioned by neural.Model.Version (Design Notes: "carl_v1").
type FileModelStore struct {
	mu   sync.Mutex
	path string
}

// NewFileModelStore roots the store at path, creating parent
// directories as needed.
func NewFileModelStore(path string) *FileModelStore {
	os.MkdirAll(filepath.Dir(path), 0755)
	return &FileModelStore{path: path}
}

// Load reads the persisted model, or returns (nil, nil) if none exists
// yet so callers can fall back to neural.NewModel().
func (s *FileModelStore) Load() (*neural.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &perr.PersistenceError{Op: "load model", Err: err}
	}
	var model neural.Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, &perr.PersistenceError{Op: "decode model", Err: err}
	}
	return &model, nil
}

// Save writes model to disk, overwriting any previous version.
func (s *FileModelStore) Save(model *neural.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return &perr.PersistenceError{Op: "encode model", Err: err}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &perr.PersistenceError{Op: "save model", Err: err}
	}
	return nil
}

// FileTrainingExampleStore appends training examples as JSON lines, so
// growing the training set never requires rewriting the whole file.
type FileTrainingExampleStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTrainingExampleStore roots the store at path.
func NewFileTrainingExampleStore(path string) *FileTrainingExampleStore {
	os.MkdirAll(filepath.Dir(path), 0755)
	return &FileTrainingExampleStore{path: path}
}

// LoadAll reads every previously appended example.
func (s *FileTrainingExampleStore) LoadAll() ([]neural.TrainingExample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &perr.PersistenceError{Op: "load training examples", Err: err}
	}

	var examples []neural.TrainingExample
	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}
		var ex neural.TrainingExample
		if err := json.Unmarshal(line, &ex); err != nil {
			continue
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// Append adds examples to the store without rewriting existing data.
func (s *FileTrainingExampleStore) Append(examples ...neural.TrainingExample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &perr.PersistenceError{Op: "open training examples", Err: err}
	}
	defer f.Close()

	for _, ex := range examples {
		data, err := json.Marshal(ex)
		if err != nil {
			return &perr.PersistenceError{Op: "encode training example", Err: err}
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return &perr.PersistenceError{Op: "append training example", Err: err}
		}
	}
	return nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

// InMemoryModelStore is a test double keeping the model in memory only.
type InMemoryModelStore struct {
	mu    sync.Mutex
	model *neural.Model
}

func (s *InMemoryModelStore) Load() (*neural.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, nil
}

func (s *InMemoryModelStore) Save(model *neural.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
	return nil
}

// InMemoryTrainingExampleStore is a test double keeping examples in
// memory only.
type InMemoryTrainingExampleStore struct {
	mu       sync.Mutex
	examples []neural.TrainingExample
}

func (s *InMemoryTrainingExampleStore) LoadAll() ([]neural.TrainingExample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]neural.TrainingExample, len(s.examples))
	copy(out, s.examples)
	return out, nil
}

func (s *InMemoryTrainingExampleStore) Append(examples ...neural.TrainingExample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.examples = append(s.examples, examples...)
	return nil
}
