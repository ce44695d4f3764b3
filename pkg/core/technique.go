package core

import (
	"time"

	"github.com/google/uuid"
)

// Technique is a reference article, e.g. a lucid dreaming exercise.
type Technique struct {
	ID      string
	Title   string
	Date    time.Time
	Content string
	// Symbol names the glyph shown next to the technique. It is opaque here.
	Symbol string
}

// NewTechnique creates a technique with a fresh identity dated now.
func NewTechnique(title, content, symbol string) Technique {
	return Technique{
		ID:      uuid.NewString(),
		Title:   title,
		Date:    time.Now(),
		Content: content,
		Symbol:  symbol,
	}
}

// TechniqueCodec maps techniques to documents and back.
var TechniqueCodec = Codec[Technique]{
	Kind: KindTechnique,
	Encode: func(t Technique) Document {
		return Document{
			ID:       t.ID,
			Kind:     KindTechnique,
			Title:    t.Title,
			Date:     t.Date,
			Content:  t.Content,
			Metadata: Metadata{metaSymbol: t.Symbol},
		}
	},
	Decode: func(doc Document) (Technique, error) {
		return Technique{
			ID:      doc.ID,
			Title:   doc.Title,
			Date:    doc.Date,
			Content: doc.Content,
			Symbol:  doc.Metadata[metaSymbol],
		}, nil
	},
}
