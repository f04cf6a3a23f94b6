package domain

import "strings"

// SegmentKind classifies one unit of transcript text.
type SegmentKind int

const (
	// SegmentUnclassified marks text the structuring rules could not
	// place. Kept rather than dropped: partial structure is more
	// useful downstream than a missing document.
	SegmentUnclassified SegmentKind = iota

	// SegmentSpeakerAttribution is a speaker line ("HON. J. USAMATE:").
	SegmentSpeakerAttribution

	// SegmentSpeechContent is spoken content attributed to the most
	// recent speaker line still in effect.
	SegmentSpeechContent

	// SegmentProcedural is a clerk or session annotation ("Question
	// put.", "House adjourned."). Always clears speaker attribution.
	SegmentProcedural

	// SegmentHeading is a short section heading ("ORAL QUESTIONS").
	SegmentHeading
)

// String returns the kind name used in diagnostics and metadata.
func (k SegmentKind) String() string {
	switch k {
	case SegmentSpeakerAttribution:
		return "speaker"
	case SegmentSpeechContent:
		return "speech"
	case SegmentProcedural:
		return "procedural"
	case SegmentHeading:
		return "heading"
	default:
		return "unclassified"
	}
}

// Segment is one classified unit of transcript content.
type Segment struct {
	// Kind is the classification of this segment.
	Kind SegmentKind

	// Speaker is the attributed speaker name. Set on attribution
	// segments and on speech segments inheriting one; empty when no
	// attribution is in effect (never guessed).
	Speaker string

	// Text is the whitespace-normalised textual payload.
	Text string

	// Ordinal is the zero-based position within the document.
	// Ordinals are contiguous and strictly increasing.
	Ordinal int
}

// StructuredDocument is the ordered output of the structuring engine
// for one raw transcript. It is never mutated after creation;
// re-processing produces a new one.
type StructuredDocument struct {
	// Title is the derived title, cleaned of source boilerplate.
	Title string

	// FormatMarker records which structural heuristic path produced
	// the document ("html" or "plain"). Diagnostics only.
	FormatMarker string

	// Segments is the ordered, classified segment sequence.
	Segments []Segment
}

// Render flattens the document back to paragraph-per-line text.
// Attribution segments render with a trailing colon so that
// re-structuring the rendered text reproduces the same segment
// sequence (idempotence up to FormatMarker).
func (d StructuredDocument) Render() string {
	parts := make([]string, 0, len(d.Segments))
	for _, seg := range d.Segments {
		if seg.Kind == SegmentSpeakerAttribution {
			parts = append(parts, seg.Text+":")
			continue
		}
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Speakers returns the distinct attributed speaker names in order of
// first appearance. Used for the per-document speaker metadata the
// collection layout carries alongside each part.
func (d StructuredDocument) Speakers() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, seg := range d.Segments {
		if seg.Kind != SegmentSpeakerAttribution || seg.Speaker == "" {
			continue
		}
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		names = append(names, seg.Speaker)
	}
	return names
}
