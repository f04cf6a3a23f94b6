package hansard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

func TestNormaliser_SupportedMIMETypes(t *testing.T) {
	n := New(NewStructurer())
	types := n.SupportedMIMETypes()

	assert.Contains(t, types, "text/html")
	assert.Contains(t, types, "text/plain")
	assert.Equal(t, 90, n.Priority())
}

func TestNormaliser_Normalise(t *testing.T) {
	n := New(NewStructurer())

	raw := &domain.RawDocument{
		URI:      "collections/Fiji/2023/December/5/part3_questions/contents_part.html",
		MIMEType: "text/html",
		Content: []byte(`<html><head><title>PNG Hansard Part 3 - ORAL QUESTIONS</title></head><body>
<p>HON. J. USAMATE: Thank you, Madam Speaker.</p>
<p>Question put.</p>
</body></html>`),
		Metadata: map[string]any{"collection": "Fiji"},
	}

	result, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "ORAL QUESTIONS", doc.Title)
	assert.Equal(t, "Hansard Document", doc.DocumentType)
	assert.Equal(t, "html", doc.FormatMarker)
	assert.Equal(t, "Fiji", doc.Metadata["collection"])
	assert.Equal(t, "text/html", doc.Metadata["mime_type"])
	assert.Equal(t, []string{"HON. J. USAMATE"}, doc.Metadata["speakers"])

	require.Len(t, doc.Segments, 3)
	assert.Contains(t, doc.Content, "Thank you, Madam Speaker.")
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestNormaliser_OralQuestionType(t *testing.T) {
	n := New(NewStructurer())

	raw := &domain.RawDocument{
		URI:      "collections/Papua New Guinea/2023/March/15/part3_questions/oral_question_180.html",
		MIMEType: "text/html",
		Content: []byte(`<html><head><title>Hansard Oral Question 180</title></head><body>
<p>Mr KONI IGUAN - I direct my question to the Minister for Works.</p>
</body></html>`),
	}

	result, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Oral Question", result.Document.DocumentType)
}

func TestNormaliser_TitleFallsBackToURI(t *testing.T) {
	n := New(NewStructurer())

	raw := &domain.RawDocument{
		URI:      "collections/Fiji/2023/June/8/daily_hansard/sitting_day_notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("HON. P. KUMAN: The committee will report next week."),
	}

	result, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "sitting day notes", result.Document.Title)
	assert.Equal(t, "plain", result.Document.FormatMarker)
}

func TestNormaliser_NilInput(t *testing.T) {
	n := New(NewStructurer())

	_, err := n.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormaliser_FreshIDsPerRun(t *testing.T) {
	n := New(NewStructurer())
	raw := &domain.RawDocument{
		URI:      "a.txt",
		MIMEType: "text/plain",
		Content:  []byte("HON. A. BALE: Same input twice."),
	}

	first, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)
	second, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEqual(t, first.Document.ID, second.Document.ID)
	assert.Equal(t, first.Document.Segments, second.Document.Segments)
}
