package dto

import (
	"time"

	"lms/internal/model"
)

// CourseCreateForm is decoded from the multipart fields of a course
// creation request. The optional thumbnail file travels separately.
type CourseCreateForm struct {
	Title       string `form:"title" validate:"required,min=8,max=59"`
	Description string `form:"description" validate:"required,min=8,max=200"`
	Category    string `form:"category" validate:"required"`
	CreatedBy   string `form:"createdBy" validate:"required"`
}

// CourseUpdateDTO is used for incoming partial course updates
type CourseUpdateDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=8,max=59"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=8,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1"`
	CreatedBy   *string `json:"createdBy,omitempty" validate:"omitempty,min=1"`
}

// LectureCreateForm is decoded from the multipart fields of an add-lecture
// request. The optional video file travels separately.
type LectureCreateForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
}

// AssetRefDTO mirrors the opaque object-store reference.
type AssetRefDTO struct {
	AssetID string `json:"asset_id"`
	URL     string `json:"url"`
}

// LectureDTO is returned for a single lecture within a course.
type LectureDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Asset       *AssetRefDTO `json:"asset,omitempty"`
}

// CourseResponseDTO is returned for a full course, lectures included.
type CourseResponseDTO struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         string       `json:"category"`
	Thumbnail        AssetRefDTO  `json:"thumbnail"`
	Lectures         []LectureDTO `json:"lectures"`
	NumberOfLectures int          `json:"number_of_lectures"`
	CreatedBy        string       `json:"created_by"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// CourseSummaryDTO is the listing shape: course metadata without the
// lecture sequence.
type CourseSummaryDTO struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	Thumbnail        AssetRefDTO `json:"thumbnail"`
	NumberOfLectures int         `json:"number_of_lectures"`
	CreatedBy        string      `json:"created_by"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// LecturesFromModel maps a lecture sequence, keeping insertion order.
func LecturesFromModel(lectures model.Lectures) []LectureDTO {
	out := make([]LectureDTO, 0, len(lectures))
	for _, l := range lectures {
		dto := LectureDTO{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
		}
		if l.Asset != nil {
			dto.Asset = &AssetRefDTO{AssetID: l.Asset.AssetID, URL: l.Asset.URL}
		}
		out = append(out, dto)
	}
	return out
}

// CourseFromModel maps a course aggregate to its response shape.
func CourseFromModel(c *model.Course) CourseResponseDTO {
	return CourseResponseDTO{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Category:         c.Category,
		Thumbnail:        AssetRefDTO{AssetID: c.Thumbnail.AssetID, URL: c.Thumbnail.URL},
		Lectures:         LecturesFromModel(c.Lectures),
		NumberOfLectures: c.NumberOfLectures,
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// CourseSummariesFromModel maps a listing, lecture detail stripped.
func CourseSummariesFromModel(courses []model.Course) []CourseSummaryDTO {
	out := make([]CourseSummaryDTO, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		out = append(out, CourseSummaryDTO{
			ID:               c.ID,
			Title:            c.Title,
			Description:      c.Description,
			Category:         c.Category,
			Thumbnail:        AssetRefDTO{AssetID: c.Thumbnail.AssetID, URL: c.Thumbnail.URL},
			NumberOfLectures: c.NumberOfLectures,
			CreatedBy:        c.CreatedBy,
			CreatedAt:        c.CreatedAt,
			UpdatedAt:        c.UpdatedAt,
		})
	}
	return out
}
