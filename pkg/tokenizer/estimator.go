// Package tokenizer estimates prompt sizes before they are sent upstream.
package tokenizer

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// BPE ranks ship with the binary; no download at runtime.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

const defaultEncoding = "cl100k_base"

type Estimator interface {
	CountTokens(text string) int
}

type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
	mu       sync.Mutex
}

var (
	tiktokenInstance *TiktokenEstimator
	tiktokenOnce     sync.Once
	tiktokenErr      error
)

// GetTiktokenEstimator returns the shared cl100k_base estimator.
func GetTiktokenEstimator() (*TiktokenEstimator, error) {
	tiktokenOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(defaultEncoding)
		if err != nil {
			tiktokenErr = err
			return
		}
		tiktokenInstance = &TiktokenEstimator{encoding: enc}
	})
	if tiktokenErr != nil {
		return nil, tiktokenErr
	}
	return tiktokenInstance, nil
}

func (e *TiktokenEstimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.encoding.Encode(text, nil, nil))
}

// RuneEstimator is a rough four-runes-per-token fallback.
type RuneEstimator struct{}

func (RuneEstimator) CountTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// New returns the tiktoken estimator, or RuneEstimator if the encoding cannot be loaded.
func New() Estimator {
	if e, err := GetTiktokenEstimator(); err == nil {
		return e
	}
	return RuneEstimator{}
}

// CountAll sums the estimate over several texts.
func CountAll(e Estimator, texts ...string) int {
	total := 0
	for _, t := range texts {
		total += e.CountTokens(t)
	}
	return total
}
