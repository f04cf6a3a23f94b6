// Package chunker provides a speaker-aware token chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// DefaultChunkTokens is the target chunk size in estimated tokens.
const DefaultChunkTokens = 1000

// DefaultOverlapTokens is the token overlap carried between adjacent
// chunks split from the same speaker turn.
const DefaultOverlapTokens = 120

// Processor splits a structured document into search chunks. Chunk
// boundaries follow the segment classification: a new attribution, a
// procedural line, a heading or a speaker change always starts a new
// chunk, so no chunk mixes two speakers' dialogue. Turns longer than
// the token target are split with overlap.
type Processor struct {
	chunkTokens   int
	overlapTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkTokens sets the target chunk size in estimated tokens.
func WithChunkTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.chunkTokens = n
		}
	}
}

// WithOverlapTokens sets the overlap between chunks in tokens.
func WithOverlapTokens(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlapTokens = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkTokens:   DefaultChunkTokens,
		overlapTokens: DefaultOverlapTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlapTokens >= p.chunkTokens {
		p.overlapTokens = p.chunkTokens / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document into chunks. Input chunks are ignored;
// this processor creates new chunks. Documents without segments fall
// back to fixed-size chunking of the plain content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if len(doc.Segments) == 0 {
		return p.chunkPlain(doc), nil
	}

	var chunks []domain.Chunk
	var block []string
	speaker := ""

	flush := func() {
		if len(block) == 0 {
			return
		}
		chunks = p.emit(chunks, doc, strings.Join(block, "\n"), speaker)
		block = block[:0]
	}

	for _, seg := range doc.Segments {
		switch seg.Kind {
		case domain.SegmentSpeakerAttribution:
			flush()
			speaker = seg.Speaker

		case domain.SegmentProcedural, domain.SegmentHeading:
			flush()
			speaker = ""
			chunks = p.emit(chunks, doc, seg.Text, "")

		default:
			if seg.Speaker != speaker {
				flush()
				speaker = seg.Speaker
			}
			block = append(block, seg.Text)
		}
	}
	flush()

	return chunks, nil
}

// emit appends the text as one or more chunks, splitting on the token
// target with overlap carried between successive pieces.
func (p *Processor) emit(chunks []domain.Chunk, doc *domain.Document, text, speaker string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return chunks
	}

	if estimateTokens(text) <= p.chunkTokens {
		return append(chunks, p.chunk(doc, text, speaker, len(chunks)))
	}

	words := strings.Fields(text)
	wordsPerChunk := p.chunkTokens // ~1 word per token estimate is close enough here
	step := wordsPerChunk - p.overlapTokens

	for start := 0; start < len(words); start += step {
		end := start + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		piece := strings.Join(words[start:end], " ")
		chunks = append(chunks, p.chunk(doc, piece, speaker, len(chunks)))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func (p *Processor) chunk(doc *domain.Document, text, speaker string, position int) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Content:    text,
		Position:   position,
		TokenCount: estimateTokens(text),
		Speaker:    speaker,
		Metadata:   make(map[string]any),
	}
}

// chunkPlain is the fallback for unstructured content: fixed windows
// of chunkTokens with overlap, measured in estimated tokens. Windows
// are cut on rune boundaries so a multi-byte character is never split
// across two chunks.
func (p *Processor) chunkPlain(doc *domain.Document) []domain.Chunk {
	if doc.Content == "" {
		return nil
	}

	size := p.chunkTokens * charsPerToken
	overlap := p.overlapTokens * charsPerToken
	runes := []rune(doc.Content)

	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, p.chunk(doc, string(runes[start:end]), "", len(chunks)))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// charsPerToken is the estimation ratio: four characters per token.
const charsPerToken = 4

func estimateTokens(text string) int {
	return len(text) / charsPerToken
}
