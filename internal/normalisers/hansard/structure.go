package hansard

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// DefaultSpeakerLengthLimit is the character bound above which a
// candidate attribution prefix is treated as prose. A title-cased
// sentence is not a speaker's name.
const DefaultSpeakerLengthLimit = 120

// headingMaxLen bounds section headings; anything longer is content.
const headingMaxLen = 50

// Structurer recovers logical speech structure from transcript markup
// whose only reliable structure is positional. It is pure and
// deterministic: identical input yields an identical segment sequence,
// so re-running the pipeline over an already processed corpus is
// indistinguishable from a fresh run except by the format marker.
type Structurer struct {
	speakerLengthLimit int
	headingResets      bool
}

// Option configures a Structurer.
type Option func(*Structurer)

// WithSpeakerLengthLimit sets the prose threshold for attribution
// candidates.
func WithSpeakerLengthLimit(n int) Option {
	return func(s *Structurer) {
		if n > 0 {
			s.speakerLengthLimit = n
		}
	}
}

// WithHeadingReset controls whether heading segments clear speaker
// attribution the way procedural segments always do.
func WithHeadingReset(v bool) Option {
	return func(s *Structurer) {
		s.headingResets = v
	}
}

// NewStructurer creates a structurer with the given options.
// Headings reset attribution by default.
func NewStructurer(opts ...Option) *Structurer {
	s := &Structurer{
		speakerLengthLimit: DefaultSpeakerLengthLimit,
		headingResets:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pre-compiled expressions for markup handling.
var (
	htmlMarkerTag = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body|p|div|h[1-6]|br|span|title)\b`)
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h3Tag         = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockClose    = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	blockOpen     = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
)

// Page markers inherited from the PDF extraction: bare page numbers,
// running heads and date lines. Dropped before ordinals are assigned.
var pageMarkerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^page \d+$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^\d+\s+questions$`),
	regexp.MustCompile(`(?i)^questions\s+\d+$`),
	regexp.MustCompile(`(?i)^\d+(?:st|nd|rd|th)\s+\w+\.?,\s+\d{4}$`),
}

// Procedural phrases: session openings and closings, points of order,
// adjournment language and clerk annotations. Matched full-line,
// regardless of surrounding context.
var proceduralRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^question put\.?$`),
	regexp.MustCompile(`(?i)^motion agreed to\.?$`),
	regexp.MustCompile(`(?i)^motion (?:carried|passed|lost)\.?$`),
	regexp.MustCompile(`(?i)^vote recorded\.?$`),
	regexp.MustCompile(`(?i)^(?:the\s+)?house adjourned\b.*$`),
	regexp.MustCompile(`(?i)^the (?:house|parliament) (?:met|resumed)\b.*$`),
	regexp.MustCompile(`(?i)^point of order\b.*$`),
	regexp.MustCompile(`(?i)^amendment\b.*$`),
	regexp.MustCompile(`(?i)^division\b.*$`),
	regexp.MustCompile(`^\(.*\)$`),
}

// questionNoParen is a parenthesised question number; it reads as a
// heading, not a clerk annotation, so it is exempted from the
// parenthesised-procedural rule.
var questionNoParen = regexp.MustCompile(`(?i)^\(question no\.?\s*\d+.*\)$`)

// Heading patterns: part and question numbering plus the standing
// order-paper section names.
var headingRes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][A-Z\s]+$`),
	regexp.MustCompile(`(?i)^oral questions?$`),
	regexp.MustCompile(`(?i)^written questions?$`),
	regexp.MustCompile(`(?i)^ministerial statements?$`),
	regexp.MustCompile(`(?i)^bills?$`),
	regexp.MustCompile(`(?i)^motions?$`),
	regexp.MustCompile(`(?i)^papers?$`),
	regexp.MustCompile(`(?i)^presentation of\b.*$`),
	regexp.MustCompile(`(?i)^debate on\b.*$`),
	regexp.MustCompile(`(?i)^resumption of debate\b.*$`),
	regexp.MustCompile(`(?i)^question no\.?\s*\d+.*$`),
	questionNoParen,
}

// Attribution candidates must open with a parliamentary honourific.
var honorificRe = regexp.MustCompile(`(?i)^(?:hon\.?|mr\.?|mrs\.?|ms\.?|dr\.?|madam|sir|the\s+acting\s+speaker)\s`)

// colonAttr splits "HON. NAME (Title): dialogue" at the first colon.
var colonAttr = regexp.MustCompile(`^([^:]+?)\s*:\s*(.*)$`)

// dashAttr splits the PNG convention "Mr JOHN DOE - dialogue". The
// name must be fully upper-case so hyphenated prose is not eaten.
var dashAttr = regexp.MustCompile(`^([A-Za-z]+\.?\s+[A-Z][A-Z .']*[A-Z](?:\s*\([^)]*\))?)\s*[-–—]\s*(.*)$`)

// nameConnectors are the lowercase words tolerated inside an
// attribution name ("Leader of the Opposition").
var nameConnectors = map[string]struct{}{
	"of": {}, "the": {}, "for": {}, "and": {},
}

// Structure classifies one raw transcript into an ordered sequence of
// typed segments with a derived title. It never fails: input the
// rules cannot place degrades to Unclassified segments.
func (s *Structurer) Structure(raw string) domain.StructuredDocument {
	marker := "plain"
	text := raw
	title := ""

	if htmlMarkerTag.MatchString(raw) {
		marker = "html"
		title = extractTitle(raw)
		text = stripMarkup(raw)
	}

	doc := domain.StructuredDocument{
		Title:        CleanTitle(title),
		FormatMarker: marker,
	}

	speaker := ""
	for _, para := range splitParagraphs(text) {
		if isPageMarker(para) {
			continue
		}

		// An attribution prefix is peeled off before classification so
		// dialogue sharing a paragraph with its speaker line classifies
		// exactly as it would standing alone. Re-structuring rendered
		// output (where the two are separate paragraphs) must agree.
		if name, dialogue, ok := s.splitAttribution(para); ok {
			speaker = name
			doc.Segments = append(doc.Segments, domain.Segment{
				Kind:    domain.SegmentSpeakerAttribution,
				Speaker: name,
				Text:    name,
				Ordinal: len(doc.Segments),
			})
			if dialogue == "" {
				continue
			}
			para = dialogue
			if isPageMarker(para) {
				continue
			}
		}

		switch {
		case isProcedural(para):
			doc.Segments = append(doc.Segments, domain.Segment{
				Kind:    domain.SegmentProcedural,
				Text:    para,
				Ordinal: len(doc.Segments),
			})
			speaker = ""

		case isHeading(para):
			doc.Segments = append(doc.Segments, domain.Segment{
				Kind:    domain.SegmentHeading,
				Text:    para,
				Ordinal: len(doc.Segments),
			})
			if s.headingResets {
				speaker = ""
			}

		default:
			kind := domain.SegmentSpeechContent
			attributed := speaker
			if !looksLikeProse(para) {
				kind = domain.SegmentUnclassified
				attributed = ""
			}
			doc.Segments = append(doc.Segments, domain.Segment{
				Kind:    kind,
				Speaker: attributed,
				Text:    para,
				Ordinal: len(doc.Segments),
			})
		}
	}

	return doc
}

// splitAttribution extracts a speaker name and trailing dialogue from
// a paragraph. Returns ok=false when the paragraph is not an
// attribution: no honourific prefix, name over the prose threshold,
// name not title-cased or upper-case, or name in the procedural list.
func (s *Structurer) splitAttribution(para string) (name, dialogue string, ok bool) {
	if !honorificRe.MatchString(para) {
		return "", "", false
	}

	if m := colonAttr.FindStringSubmatch(para); m != nil {
		if s.acceptName(m[1]) {
			return m[1], m[2], true
		}
		return "", "", false
	}
	if m := dashAttr.FindStringSubmatch(para); m != nil {
		if s.acceptName(m[1]) {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// acceptName applies the ambiguity policy: bounded length, every word
// capitalised (connectors aside), never a procedural phrase.
func (s *Structurer) acceptName(name string) bool {
	if name == "" || len(name) > s.speakerLengthLimit {
		return false
	}
	if isProcedural(name) {
		return false
	}

	// Parentheticals carry constituency or portfolio in any case.
	stripped := strings.TrimSpace(allParens.ReplaceAllString(name, ""))
	words := strings.Fields(stripped)
	if len(words) < 2 {
		return false
	}
	for i, w := range words {
		if i == 0 {
			continue // honourific already checked
		}
		if _, conn := nameConnectors[w]; conn {
			continue
		}
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

var allParens = regexp.MustCompile(`\([^)]*\)`)

func isPageMarker(text string) bool {
	for _, re := range pageMarkerRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isProcedural(text string) bool {
	if questionNoParen.MatchString(text) {
		return false
	}
	for _, re := range proceduralRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isHeading(text string) bool {
	if len(text) > headingMaxLen {
		return false
	}
	for _, re := range headingRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// looksLikeProse reports whether at least half of the paragraph's
// non-space runes are letters. OCR noise and table debris fail this
// and degrade to Unclassified instead of being dropped.
func looksLikeProse(text string) bool {
	letters, total := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return false
	}
	return letters*2 >= total
}

// CleanTitle strips the source-system boilerplate prefix: a fixed
// "Hansard Part N" label followed by a dash-delimited qualifier keeps
// only the qualifier. Titles without the prefix pass through unchanged.
func CleanTitle(title string) string {
	if !boilerplateTitle.MatchString(title) {
		return title
	}
	if _, after, ok := strings.Cut(title, " - "); ok {
		return strings.TrimSpace(after)
	}
	return title
}

var boilerplateTitle = regexp.MustCompile(`\bHansard Part \d+`)

// DeriveDocumentType categorises a document from its derived title,
// matching the categories the collection pipeline has always used.
func DeriveDocumentType(title string) string {
	if strings.Contains(title, "Oral Question") {
		return "Oral Question"
	}
	return "Hansard Document"
}

// extractTitle pulls a title from the <title> tag, falling back to the
// first <h3>, the way the collection's generated part files carry it.
func extractTitle(content string) string {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		if t := strings.TrimSpace(html.UnescapeString(m[1])); t != "" {
			return collapseSpaces(t)
		}
	}
	if m := h3Tag.FindStringSubmatch(content); len(m) > 1 {
		inner := allTags.ReplaceAllString(m[1], "")
		if t := strings.TrimSpace(html.UnescapeString(inner)); t != "" {
			return collapseSpaces(t)
		}
	}
	return ""
}

// stripMarkup reduces HTML to newline-separated paragraphs.
func stripMarkup(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = blockOpen.ReplaceAllString(content, "\n")
	content = blockClose.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

// splitParagraphs yields one trimmed, whitespace-collapsed paragraph
// per non-empty line. One segment per paragraph-like unit; paragraphs
// are never merged.
func splitParagraphs(text string) []string {
	var paras []string
	for _, line := range strings.Split(text, "\n") {
		line = collapseSpaces(line)
		if line != "" {
			paras = append(paras, line)
		}
	}
	return paras
}

// collapseSpaces reduces all runs of whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
