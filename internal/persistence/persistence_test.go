package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/neural"
)

func TestFileModelStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	store := NewFileModelStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	model := neural.NewModel()
	model.Generation = 7
	model.TrainingCount = 140
	model.Accuracy = 0.92
	require.NoError(t, store.Save(model))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, model.Version, loaded.Version)
	assert.Equal(t, 7, loaded.Generation)
	assert.Equal(t, 140, loaded.TrainingCount)
	assert.Equal(t, 0.92, loaded.Accuracy)
}

func TestFileTrainingExampleStoreAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examples.jsonl")
	store := NewFileTrainingExampleStore(path)

	examples, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, examples)

	var ex1, ex2 neural.TrainingExample
	ex1.Label = 1
	ex1.Domain = "example.com"
	ex1.URL = "https://example.com/privacy"
	ex2.Label = 0
	ex2.FeedbackLabel = "incorrect"
	require.NoError(t, store.Append(ex1, ex2))

	examples, err = store.LoadAll()
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, float64(1), examples[0].Label)
	assert.Equal(t, "example.com", examples[0].Domain)
	assert.Equal(t, float64(0), examples[1].Label)
	assert.Equal(t, "incorrect", examples[1].FeedbackLabel)
}

func TestInMemoryModelStoreRoundTrip(t *testing.T) {
	store := &InMemoryModelStore{}
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	model := neural.NewModel()
	require.NoError(t, store.Save(model))

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Same(t, model, loaded)
}

func TestInMemoryTrainingExampleStoreAppendAndLoad(t *testing.T) {
	store := &InMemoryTrainingExampleStore{}
	require.NoError(t, store.Append(neural.TrainingExample{Label: 1}))

	examples, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, examples, 1)
}
