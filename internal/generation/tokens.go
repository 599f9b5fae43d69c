package generation

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// TokenCounter estimates prompt sizes for logging and metrics.
type TokenCounter interface {
	Count(text string) int
}

type estimateCounter struct{}

// Count approximates tokens as one per four runes.
func (estimateCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// EstimateCounter returns a counter that needs no vocabulary.
func EstimateCounter() TokenCounter {
	return estimateCounter{}
}

type tiktokenCounter struct {
	encoding string
	logger   *zap.Logger

	once sync.Once
	tke  *tiktoken.Tiktoken
}

// NewTiktokenCounter counts tokens with the named tiktoken encoding (e.g. "cl100k_base").
// The vocabulary is loaded lazily on first use; if it cannot be loaded the counter falls
// back to the rune based estimate.
func NewTiktokenCounter(encoding string, logger *zap.Logger) TokenCounter {
	return &tiktokenCounter{encoding: encoding, logger: logger.Named("tiktoken")}
}

func (c *tiktokenCounter) Count(text string) int {
	c.once.Do(func() {
		tke, err := tiktoken.GetEncoding(c.encoding)
		if err != nil {
			c.logger.Warn("Failed to load tiktoken encoding, using estimate", zap.String("encoding", c.encoding), zap.Error(err))
			return
		}
		c.tke = tke
	})
	if c.tke == nil {
		return estimateCounter{}.Count(text)
	}
	return len(c.tke.Encode(text, nil, nil))
}
