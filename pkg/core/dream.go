package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is the part of the day a dream was recorded for.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimesOfDay lists the valid values in display order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// ParseTimeOfDay converts a stored value back into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, t := range TimesOfDay {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown time of day %q", ErrInvalid, s)
}

// DreamType classifies a dream.
type DreamType string

const (
	Normal    DreamType = "normal"
	Lucid     DreamType = "lucid"
	Nightmare DreamType = "nightmare"
)

// DreamTypes lists the valid values in display order.
var DreamTypes = []DreamType{Normal, Lucid, Nightmare}

// ParseDreamType converts a stored value back into a DreamType.
func ParseDreamType(s string) (DreamType, error) {
	for _, t := range DreamTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown dream type %q", ErrInvalid, s)
}

// Dream is a single journal entry.
type Dream struct {
	ID        string
	Title     string
	Date      time.Time
	TimeOfDay TimeOfDay
	Content   string
	Type      DreamType
}

// NewDream creates a dream with a fresh identity dated now.
func NewDream(title string, timeOfDay TimeOfDay, content string, typ DreamType) Dream {
	return Dream{
		ID:        uuid.NewString(),
		Title:     title,
		Date:      time.Now(),
		TimeOfDay: timeOfDay,
		Content:   content,
		Type:      typ,
	}
}

const (
	metaTimeOfDay = "time_of_day"
	metaDreamType = "type"
	metaSymbol    = "symbol"
)

// DreamCodec maps dreams to documents and back.
var DreamCodec = Codec[Dream]{
	Kind: KindDream,
	Encode: func(d Dream) Document {
		return Document{
			ID:      d.ID,
			Kind:    KindDream,
			Title:   d.Title,
			Date:    d.Date,
			Content: d.Content,
			Metadata: Metadata{
				metaTimeOfDay: string(d.TimeOfDay),
				metaDreamType: string(d.Type),
			},
		}
	},
	Decode: func(doc Document) (Dream, error) {
		tod, err := ParseTimeOfDay(doc.Metadata[metaTimeOfDay])
		if err != nil {
			return Dream{}, fmt.Errorf("dream %s: %w", doc.ID, err)
		}
		typ, err := ParseDreamType(doc.Metadata[metaDreamType])
		if err != nil {
			return Dream{}, fmt.Errorf("dream %s: %w", doc.ID, err)
		}
		return Dream{
			ID:        doc.ID,
			Title:     doc.Title,
			Date:      doc.Date,
			TimeOfDay: tod,
			Content:   doc.Content,
			Type:      typ,
		}, nil
	},
}
