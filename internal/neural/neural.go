// Package neural implements Carl, the small feedforward scorer that
// re-ranks candidates the heuristic validator leaves ambiguous (spec
// §4.7). There is no teacher analog for a trained network; the
// architecture and training rule below follow the spec's own
// description directly: a fixed 24-32-16-1 sigmoid network trained by
// stochastic backpropagation with classical momentum.
package neural

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/codebooo/policyscout/internal/logging"
)

const (
	inputSize  = 24
	hidden1Size = 32
	hidden2Size = 16
	outputSize  = 1

	learningRate = 0.15
	momentum     = 0.9

	// sigmoidClamp bounds the pre-activation value before exp() to
	// avoid float overflow on pathological inputs.
	sigmoidClamp = 500

	// retrainEpochs is the fixed epoch count Retrain runs, and becomes
	// Model.Generation after every retrain call (spec's Retrain rule).
	retrainEpochs = 5
)

func sigmoid(x float64) float64 {
	if x > sigmoidClamp {
		x = sigmoidClamp
	} else if x < -sigmoidClamp {
		x = -sigmoidClamp
	}
	return 1.0 / (1.0 + math.Exp(-x))
}

func sigmoidDerivative(activated float64) float64 {
	return activated * (1 - activated)
}

// TrainingExample is one labeled (features, confidence) pair Carl can
// learn from, plus the provenance needed to cap/prune the stored set
// and to let a human feedback label override the original target.
type TrainingExample struct {
	Features      [inputSize]float64
	Label         float64 // 1.0 = genuine policy URL, 0.0 = not
	Domain        string    `json:"domain,omitempty"`
	URL           string    `json:"url,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	FeedbackLabel string    `json:"feedback_label,omitempty"`
}

// layer holds the weights, biases, and momentum state between two
// adjacent layers of size (in -> out).
type layer struct {
	Weights   [][]float64 `json:"weights"` // [out][in]
	Biases    []float64   `json:"biases"`
	WVelocity [][]float64 `json:"w_velocity"`
	BVelocity []float64   `json:"b_velocity"`
}

func newLayer(in, out int) *layer {
	l := &layer{
		Weights:   make([][]float64, out),
		Biases:    make([]float64, out),
		WVelocity: make([][]float64, out),
		BVelocity: make([]float64, out),
	}
	scale := math.Sqrt(2.0 / float64(in))
	seed := uint64(1)
	for o := 0; o < out; o++ {
		l.Weights[o] = make([]float64, in)
		l.WVelocity[o] = make([]float64, in)
		for i := 0; i < in; i++ {
			seed = seed*6364136223846793005 + 1442695040888963407
			r := (float64(seed>>11) / float64(1<<53)) // [0,1)
			l.Weights[o][i] = (r*2 - 1) * scale
		}
	}
	return l
}

func (l *layer) forward(in []float64) []float64 {
	out := make([]float64, len(l.Weights))
	for o := range l.Weights {
		sum := l.Biases[o]
		for i, w := range l.Weights[o] {
			sum += w * in[i]
		}
		out[o] = sigmoid(sum)
	}
	return out
}

// Model is Carl's full parameter set: input->hidden1->hidden2->output,
// plus the metadata tracked alongside the weights.
type Model struct {
	Version       string    `json:"version"`
	L1            *layer    `json:"layer1"`
	L2            *layer    `json:"layer2"`
	L3            *layer    `json:"layer3"`
	Generation    int       `json:"generation"`
	TrainingCount int       `json:"training_count"`
	Accuracy      float64   `json:"accuracy"`
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`
}

// NewModel builds Carl with freshly initialized weights and zeroed
// training metadata.
func NewModel() *Model {
	return &Model{
		Version: "carl_v1",
		L1:      newLayer(inputSize, hidden1Size),
		L2:      newLayer(hidden1Size, hidden2Size),
		L3:      newLayer(hidden2Size, outputSize),
	}
}

// Stats is the read-only snapshot getStats() returns.
type Stats struct {
	Generation    int
	TrainingCount int
	Accuracy      float64
	LastTrainedAt time.Time
}

// Scorer is Carl's concurrency-safe public interface: predict under a
// read lock, train under a write lock.
type Scorer struct {
	mu    sync.RWMutex
	model *Model
}

// NewScorer wraps model (or a fresh Model if nil) in a Scorer.
func NewScorer(model *Model) *Scorer {
	if model == nil {
		model = NewModel()
	}
	return &Scorer{model: model}
}

// Predict runs a forward pass and returns Carl's confidence that
// features describe a genuine policy URL, in [0, 1].
func (s *Scorer) Predict(features [inputSize]float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.forward(features[:])
	return out.output[0]
}

type forwardPass struct {
	input   []float64
	h1      []float64
	h2      []float64
	output  []float64
}

func (s *Scorer) forward(input []float64) forwardPass {
	h1 := s.model.L1.forward(input)
	h2 := s.model.L2.forward(h1)
	out := s.model.L3.forward(h2)
	return forwardPass{input: input, h1: h1, h2: h2, output: out}
}

// ExampleRecorder persists one TrainingExample. It is satisfied
// structurally by persistence.TrainingExampleStore (and friends)
// without this package importing persistence, which already imports
// neural.
type ExampleRecorder interface {
	Append(examples ...TrainingExample) error
}

// ModelSaver persists Carl's weights. Satisfied structurally by
// persistence.ModelStore.
type ModelSaver interface {
	Save(model *Model) error
}

// Train runs the single-example training step: one forward pass, one
// backward pass, incrementing training_count and generation by
// exactly one, then persisting the example and the updated weights if
// recorder/saver are non-nil. This is the CLI/admin-surface
// `train(features, target, domain, url)` call.
func (s *Scorer) Train(features [inputSize]float64, target float64, domain, url string, recorder ExampleRecorder, saver ModelSaver) error {
	ex := TrainingExample{Features: features, Label: target, Domain: domain, URL: url, CreatedAt: time.Now()}

	s.mu.Lock()
	s.trainOne(ex)
	s.model.TrainingCount++
	s.model.Generation++
	s.model.LastTrainedAt = ex.CreatedAt
	snapshot := s.model
	s.mu.Unlock()

	logging.LogNeural("trained on 1 example (domain=%s generation=%d)", domain, snapshot.Generation)

	if recorder != nil {
		if err := recorder.Append(ex); err != nil {
			return err
		}
	}
	if saver != nil {
		return saver.Save(snapshot)
	}
	return nil
}

// Retrain resets the weights and velocities, then runs retrainEpochs
// passes over examples in a freshly shuffled order each epoch,
// setting generation to the epoch count and accuracy to the exact-
// match rate against a 0.5 decision threshold (spec's Retrain rule).
func (s *Scorer) Retrain(examples []TrainingExample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model.L1 = newLayer(inputSize, hidden1Size)
	s.model.L2 = newLayer(hidden1Size, hidden2Size)
	s.model.L3 = newLayer(hidden2Size, outputSize)

	order := make([]int, len(examples))
	for i := range order {
		order[i] = i
	}
	for epoch := 0; epoch < retrainEpochs; epoch++ {
		rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			s.trainOne(examples[idx])
		}
	}

	correct := 0
	for _, ex := range examples {
		predicted := 0.0
		if s.forward(ex.Features[:]).output[0] >= 0.5 {
			predicted = 1.0
		}
		if predicted == ex.Label {
			correct++
		}
	}
	if len(examples) > 0 {
		s.model.Accuracy = float64(correct) / float64(len(examples))
	}
	s.model.TrainingCount += len(examples)
	s.model.Generation = retrainEpochs
	s.model.LastTrainedAt = time.Now()

	logging.LogNeural("retrained on %d examples, accuracy=%.2f", len(examples), s.model.Accuracy)
}

func (s *Scorer) trainOne(ex TrainingExample) {
	pass := s.forward(ex.Features[:])

	outErr := make([]float64, outputSize)
	for o := 0; o < outputSize; o++ {
		diff := ex.Label - pass.output[o]
		outErr[o] = diff * sigmoidDerivative(pass.output[o])
	}

	h2Err := backpropLayer(s.model.L3, pass.h2, outErr)
	h1Err := backpropLayer(s.model.L2, pass.h1, h2Err)
	_ = backpropLayer(s.model.L1, pass.input, h1Err)

	updateLayer(s.model.L3, pass.h2, outErr)
	updateLayer(s.model.L2, pass.h1, h2Err)
	updateLayer(s.model.L1, pass.input, h1Err)
}

// backpropLayer propagates layer l's output error back to its inputs,
// scaled by the input-side sigmoid derivative, producing the error
// term the preceding layer needs for its own update.
func backpropLayer(l *layer, layerInput []float64, outErr []float64) []float64 {
	inErr := make([]float64, len(layerInput))
	for i := range layerInput {
		sum := 0.0
		for o, w := range l.Weights {
			sum += w[i] * outErr[o]
		}
		inErr[i] = sum * sigmoidDerivative(layerInput[i])
	}
	return inErr
}

// updateLayer applies the weight and bias deltas for l given its input
// activations and output error, with classical momentum.
func updateLayer(l *layer, input []float64, outErr []float64) {
	for o := range l.Weights {
		for i := range l.Weights[o] {
			grad := outErr[o] * input[i]
			l.WVelocity[o][i] = momentum*l.WVelocity[o][i] + learningRate*grad
			l.Weights[o][i] += l.WVelocity[o][i]
		}
		l.BVelocity[o] = momentum*l.BVelocity[o] + learningRate*outErr[o]
		l.Biases[o] += l.BVelocity[o]
	}
}

// Reset discards the current model and starts fresh, used when the
// feature schema changes.
func (s *Scorer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = NewModel()
}

// Snapshot returns the current model for persistence. It is the live
// model pointer, not a copy.
func (s *Scorer) Snapshot() *Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Stats reports Carl's training metadata, the CLI/admin-surface
// `getStats()` call.
func (s *Scorer) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Generation:    s.model.Generation,
		TrainingCount: s.model.TrainingCount,
		Accuracy:      s.model.Accuracy,
		LastTrainedAt: s.model.LastTrainedAt,
	}
}

// InputSize exposes the fixed feature-vector length so callers building
// feature vectors can size arrays without importing constants directly.
const InputSize = inputSize
