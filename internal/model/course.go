package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AssetRef is an opaque handle to a binary stored in the external object
// store. The store owns the binary; the record keeps a back-reference only.
type AssetRef struct {
	AssetID string `json:"asset_id"`
	URL     string `json:"url"`
}

// PlaceholderThumbnail is the sentinel thumbnail assigned at course creation
// before any real upload happens.
var PlaceholderThumbnail = AssetRef{
	AssetID: "placeholder",
	URL:     "placeholder",
}

// IsPlaceholder reports whether the reference is the creation-time sentinel.
func (a AssetRef) IsPlaceholder() bool {
	return a.AssetID == PlaceholderThumbnail.AssetID
}

// Lecture is owned by its Course and has no identity outside the aggregate.
// The asset reference is nil when no video was attached.
type Lecture struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Asset       *AssetRef `json:"asset,omitempty"`
}

// Lectures is the ordered lecture sequence of a course, persisted as a single
// JSONB value on the course row so mutations stay within one atomic UPDATE.
type Lectures []Lecture

// Value implements the driver.Valuer interface for JSONB
func (l Lectures) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(Lectures{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for JSONB
func (l *Lectures) Scan(value interface{}) error {
	if value == nil {
		*l = Lectures{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Lectures", value)
	}

	if len(bytes) == 0 {
		*l = Lectures{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Course is the aggregate root. NumberOfLectures is derived and must equal
// len(Lectures) after every mutation; it is never settable on its own.
type Course struct {
	ID               string    `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Category         string    `db:"category" json:"category"`
	Thumbnail        AssetRef  `json:"thumbnail"`
	Lectures         Lectures  `db:"lectures" json:"lectures"`
	NumberOfLectures int       `db:"number_of_lectures" json:"number_of_lectures"`
	CreatedBy        string    `db:"created_by" json:"created_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// LectureByID returns the lecture with the given id, or nil. Lookup is by
// identifier equality, never by position.
func (c *Course) LectureByID(lectureID string) *Lecture {
	for i := range c.Lectures {
		if c.Lectures[i].ID == lectureID {
			return &c.Lectures[i]
		}
	}
	return nil
}
