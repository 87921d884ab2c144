// internal/embedding/encoder.go
package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"assessment-recommender/internal/common/config"
)

var ortInit sync.Once

// initRuntime sets up the shared ONNX Runtime environment once per process.
func initRuntime(libraryPath string) error {
	var initErr error
	ortInit.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		initErr = ort.InitializeEnvironment()
	})
	return initErr
}

// Encoder runs a sentence-transformer ONNX model with mean pooling over the
// attention mask and L2 normalization, so cosine similarity reduces to a dot
// product downstream.
type Encoder struct {
	session *ort.DynamicAdvancedSession
	tk      *tokenizer.Tokenizer
	modelID string
	maxSeq  int
	dim     int

	// ONNX Runtime sessions are not safe for concurrent Run calls.
	mu sync.Mutex
}

func NewEncoder(cfg config.EmbedderConfig) (*Encoder, error) {
	if err := initRuntime(cfg.OrtLibrary); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", cfg.TokenizerPath, err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		nil)
	if err != nil {
		return nil, fmt.Errorf("load onnx model %s: %w", cfg.ModelPath, err)
	}

	return &Encoder{
		session: session,
		tk:      tk,
		modelID: cfg.ModelID,
		maxSeq:  cfg.MaxSeqLen,
		dim:     cfg.Dimension,
	}, nil
}

func (e *Encoder) ModelID() string { return e.modelID }

func (e *Encoder) Dimension() int { return e.dim }

func (e *Encoder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, mask, types, err := e.tokenize(text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	seqLen := int64(len(ids))
	shape := ort.NewShape(1, seqLen)

	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(shape, types)
	if err != nil {
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run onnx session: %w", err)
	}
	defer outputs[0].Destroy()

	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}

	return meanPool(hidden.GetData(), hidden.GetShape(), mask)
}

func (e *Encoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		err := e.session.Destroy()
		e.session = nil
		return err
	}
	return nil
}

// tokenize encodes normalized text and truncates to the model's max sequence
// length, keeping the leading special token intact.
func (e *Encoder) tokenize(text string) (ids, mask, types []int64, err error) {
	enc, err := e.tk.EncodeSingle(NormalizeText(text), true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("tokenize text: %w", err)
	}

	n := len(enc.Ids)
	if e.maxSeq > 0 && n > e.maxSeq {
		n = e.maxSeq
	}
	if n == 0 {
		return nil, nil, nil, fmt.Errorf("tokenizer produced no tokens")
	}

	ids = make([]int64, n)
	mask = make([]int64, n)
	types = make([]int64, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(enc.Ids[i])
		mask[i] = int64(enc.AttentionMask[i])
		types[i] = int64(enc.TypeIds[i])
	}
	return ids, mask, types, nil
}

// meanPool averages the token embeddings weighted by the attention mask and
// returns the L2-normalized sentence vector.
func meanPool(data []float32, shape []int64, mask []int64) ([]float32, error) {
	if len(shape) != 3 {
		return nil, fmt.Errorf("unexpected hidden state rank %d", len(shape))
	}
	seqLen, hidden := int(shape[1]), int(shape[2])
	if len(data) < seqLen*hidden || len(mask) < seqLen {
		return nil, fmt.Errorf("hidden state shape %v does not match input length %d", shape, len(mask))
	}

	pooled := make([]float32, hidden)
	var count float32
	for tok := 0; tok < seqLen; tok++ {
		if mask[tok] == 0 {
			continue
		}
		count++
		row := data[tok*hidden : (tok+1)*hidden]
		for i, v := range row {
			pooled[i] += v
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("attention mask is all zeros")
	}
	for i := range pooled {
		pooled[i] /= count
	}
	l2Normalize(pooled)
	return pooled, nil
}
