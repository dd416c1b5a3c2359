package neural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictReturnsBoundedScore(t *testing.T) {
	scorer := NewScorer(nil)
	var features [inputSize]float64
	for i := range features {
		features[i] = 0.5
	}
	score := scorer.Predict(features)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestTrainSingleExampleRoundTrip(t *testing.T) {
	scorer := NewScorer(nil)
	var features [inputSize]float64
	for i := range features {
		features[i] = 0.8
	}

	scoreBefore := scorer.Predict(features)
	require.NoError(t, scorer.Train(features, 1, "example.com", "https://example.com/privacy", nil, nil))
	assert.Greater(t, scorer.Predict(features), scoreBefore)

	for i := 0; i < 50; i++ {
		require.NoError(t, scorer.Train(features, 0, "example.com", "https://example.com/privacy", nil, nil))
	}
	assert.Less(t, scorer.Predict(features), 0.2)

	assert.Equal(t, 51, scorer.Stats().Generation)
	assert.Equal(t, 51, scorer.Stats().TrainingCount)
}

func TestTrainRecordsExampleAndSavesModelWhenWired(t *testing.T) {
	scorer := NewScorer(nil)
	var features [inputSize]float64
	recorder := &fakeRecorder{}
	saver := &fakeSaver{}

	require.NoError(t, scorer.Train(features, 1, "example.com", "https://example.com/privacy", recorder, saver))

	require.Len(t, recorder.saved, 1)
	assert.Equal(t, "example.com", recorder.saved[0].Domain)
	assert.Equal(t, "https://example.com/privacy", recorder.saved[0].URL)
	require.NotNil(t, saver.model)
	assert.Equal(t, 1, saver.model.Generation)
}

func TestRetrainResetsWeightsAndSetsMetadata(t *testing.T) {
	scorer := NewScorer(nil)
	var features [inputSize]float64
	for i := range features {
		features[i] = 0.8
	}
	examples := []TrainingExample{
		{Features: features, Label: 1.0},
		{Features: features, Label: 1.0},
	}

	scorer.Retrain(examples)
	stats := scorer.Stats()
	assert.Equal(t, retrainEpochs, stats.Generation)
	assert.Equal(t, 2, stats.TrainingCount)
	assert.GreaterOrEqual(t, stats.Accuracy, 0.0)
	assert.LessOrEqual(t, stats.Accuracy, 1.0)
}

func TestResetDiscardsLearnedWeightsAndMetadata(t *testing.T) {
	scorer := NewScorer(nil)
	var features [inputSize]float64
	for i := range features {
		features[i] = 0.9
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, scorer.Train(features, 1, "", "", nil, nil))
	}
	trained := scorer.Snapshot()
	require.Greater(t, trained.Generation, 0)

	scorer.Reset()
	fresh := scorer.Snapshot()

	require.NotEqual(t, trained.L1.Weights[0][0], fresh.L1.Weights[0][0])
	assert.Equal(t, 0, fresh.Generation)
	assert.Equal(t, 0, fresh.TrainingCount)
}

func TestSigmoidClampPreventsOverflow(t *testing.T) {
	assert.InDelta(t, 1.0, sigmoid(1e10), 1e-9)
	assert.InDelta(t, 0.0, sigmoid(-1e10), 1e-9)
}

type fakeRecorder struct {
	saved []TrainingExample
}

func (f *fakeRecorder) Append(examples ...TrainingExample) error {
	f.saved = append(f.saved, examples...)
	return nil
}

type fakeSaver struct {
	model *Model
}

func (f *fakeSaver) Save(model *Model) error {
	f.model = model
	return nil
}
