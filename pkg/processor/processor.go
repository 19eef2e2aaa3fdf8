package processor

import (
	"strings"
	"unicode"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

type ProcessorConfig struct {
	ChunkSize      int // in characters
	ChunkOverlap   int
	MinChunkLength int
}

// Processor splits bill text into overlapping, sentence-aligned chunks.
type Processor struct {
	config ProcessorConfig
}

var _ types.Chunker = (*Processor)(nil)

func NewWithConfig(config ProcessorConfig) *Processor {
	// An explicit zero overlap is kept once a chunk size is set.
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1000
		if config.ChunkOverlap == 0 {
			config.ChunkOverlap = 200
		}
	}
	if config.ChunkOverlap < 0 {
		config.ChunkOverlap = 0
	}
	if config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 5
	}
	if config.MinChunkLength <= 0 {
		config.MinChunkLength = 100
	}

	return &Processor{
		config: config,
	}
}

func (p *Processor) Process(docs []models.BillDocument) []models.ChunkedBill {
	processed := make([]models.ChunkedBill, 0, len(docs))
	for _, doc := range docs {
		processed = append(processed, models.ChunkedBill{
			BillDocument: doc,
			Chunks:       p.Chunk(doc.Content),
		})
	}
	return processed
}

// Chunk returns chunks of at most ChunkSize characters. Each chunk after the
// first starts with roughly ChunkOverlap characters of its predecessor.
// Text shorter than MinChunkLength yields no chunks.
func (p *Processor) Chunk(text string) []string {
	text = cleanText(text)
	if len([]rune(text)) < p.config.MinChunkLength {
		return nil
	}

	var (
		chunks  []string
		current []rune
	)
	for _, sentence := range splitIntoSentences(text) {
		for _, piece := range p.splitLong(sentence) {
			if len(current) > 0 && len(current)+1+len(piece) > p.config.ChunkSize {
				chunks = append(chunks, string(current))
				current = overlapTail(current, p.config.ChunkOverlap)
				if len(current)+1+len(piece) > p.config.ChunkSize {
					current = nil
				}
			}
			if len(current) > 0 {
				current = append(current, ' ')
			}
			current = append(current, piece...)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}

	return chunks
}

// splitLong breaks a sentence that could not fit in a chunk next to the
// overlap into word-aligned pieces.
func (p *Processor) splitLong(sentence string) [][]rune {
	limit := max(p.config.ChunkSize-p.config.ChunkOverlap-1, 1)
	runes := []rune(sentence)
	if len(runes) <= limit {
		return [][]rune{runes}
	}

	var pieces [][]rune
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		pieces = append(pieces, runes[:cut])
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		pieces = append(pieces, runes)
	}
	return pieces
}

func overlapTail(chunk []rune, overlap int) []rune {
	if overlap <= 0 {
		return nil
	}
	if len(chunk) <= overlap {
		return append([]rune(nil), chunk...)
	}
	tail := chunk[len(chunk)-overlap:]
	// Start on a word boundary.
	for i, r := range tail {
		if r == ' ' {
			tail = tail[i+1:]
			break
		}
	}
	return append([]rune(nil), tail...)
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// splitIntoSentences splits whitespace-normalized text after terminal
// punctuation, including the Devanagari danda.
func splitIntoSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if !isSentenceEnd(r) {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '।':
		return true
	}
	return false
}
