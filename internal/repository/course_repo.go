package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lms/internal/model"
)

// CourseRepository owns the course aggregate. The lecture sequence lives as
// JSONB on the course row, so every lecture mutation is a single-row atomic
// UPDATE; no read-modify-write races across requests.
type CourseRepository interface {
	// ListCourses returns all courses with the lecture detail stripped.
	ListCourses(ctx context.Context) ([]model.Course, error)
	// GetCourseByID retrieves a course by its ID, nil if absent
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// UpdateCourse updates the scalar course fields, leaving lectures alone.
	UpdateCourse(ctx context.Context, c *model.Course) error
	// SetThumbnail patches the thumbnail reference after a successful upload.
	SetThumbnail(ctx context.Context, courseID string, ref model.AssetRef) error
	// DeleteCourse removes the course row and reports whether it existed.
	DeleteCourse(ctx context.Context, courseID string) (bool, error)
	// AppendLecture atomically appends to the lecture sequence and recomputes
	// the derived count. Returns nil if the course does not exist.
	AppendLecture(ctx context.Context, courseID string, lecture model.Lecture) (*model.Course, error)
	// RemoveLecture atomically removes the lecture with the given id and
	// recomputes the derived count. Returns nil if no course/lecture matched.
	RemoveLecture(ctx context.Context, courseID, lectureID string) (*model.Course, error)
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, title, description, category, thumbnail_asset_id, thumbnail_url,
	       lectures, number_of_lectures, created_by, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (*model.Course, error) {
	var c model.Course
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Thumbnail.AssetID,
		&c.Thumbnail.URL,
		&c.Lectures,
		&c.NumberOfLectures,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCourses retrieves all courses without their lecture sequences; the
// listing endpoint only needs course-level metadata.
func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	query := `
		SELECT id, title, description, category, thumbnail_asset_id, thumbnail_url,
		       number_of_lectures, created_by, created_at, updated_at
		FROM courses
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Category,
			&c.Thumbnail.AssetID,
			&c.Thumbnail.URL,
			&c.NumberOfLectures,
			&c.CreatedBy,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.Course{}, nil
	}

	return courses, nil
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(r.db.QueryRowContext(ctx, query, courseID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan course row: %w", err)
	}
	return c, nil
}

// CreateCourse inserts a new course and fills in the generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (title, description, category, thumbnail_asset_id, thumbnail_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lectures, number_of_lectures, created_at, updated_at
	`
	if err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Category, c.Thumbnail.AssetID, c.Thumbnail.URL, c.CreatedBy,
	).Scan(&c.ID, &c.Lectures, &c.NumberOfLectures, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// UpdateCourse updates the scalar fields of an existing course record
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, category = $3, created_by = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING lectures, number_of_lectures, created_at, updated_at
	`
	if err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Category, c.CreatedBy, c.ID,
	).Scan(&c.Lectures, &c.NumberOfLectures, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

// SetThumbnail patches the thumbnail reference in place.
func (r *courseRepo) SetThumbnail(ctx context.Context, courseID string, ref model.AssetRef) error {
	query := `
		UPDATE courses
		SET thumbnail_asset_id = $1, thumbnail_url = $2, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, ref.AssetID, ref.URL, courseID); err != nil {
		return fmt.Errorf("failed to set course thumbnail: %w", err)
	}
	return nil
}

// DeleteCourse removes the course row. External lecture assets are not
// touched here.
func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// AppendLecture appends in one statement; the derived count is recomputed
// from the same expression so it can never drift from the sequence length.
func (r *courseRepo) AppendLecture(ctx context.Context, courseID string, lecture model.Lecture) (*model.Course, error) {
	element, err := json.Marshal(model.Lectures{lecture})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lecture: %w", err)
	}

	query := `
		UPDATE courses
		SET lectures = lectures || $2::jsonb,
		    number_of_lectures = jsonb_array_length(lectures || $2::jsonb),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + courseColumns

	c, err := scanCourse(r.db.QueryRowContext(ctx, query, courseID, string(element)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to append lecture: %w", err)
	}
	return c, nil
}

// RemoveLecture filters the sequence by lecture id in one statement. The
// containment guard makes the statement a no-op match when the lecture is
// absent, which surfaces as sql.ErrNoRows.
func (r *courseRepo) RemoveLecture(ctx context.Context, courseID, lectureID string) (*model.Course, error) {
	query := `
		UPDATE courses
		SET lectures = (
		        SELECT COALESCE(jsonb_agg(l ORDER BY ord), '[]'::jsonb)
		        FROM jsonb_array_elements(lectures) WITH ORDINALITY AS t(l, ord)
		        WHERE l->>'id' <> $2
		    ),
		    number_of_lectures = (
		        SELECT COUNT(*)
		        FROM jsonb_array_elements(lectures) AS l
		        WHERE l->>'id' <> $2
		    ),
		    updated_at = NOW()
		WHERE id = $1
		  AND lectures @> jsonb_build_array(jsonb_build_object('id', $2::text))
		RETURNING ` + courseColumns

	c, err := scanCourse(r.db.QueryRowContext(ctx, query, courseID, lectureID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to remove lecture: %w", err)
	}
	return c, nil
}
