package service

import (
	"context"

	"lms/internal/apperr"
	"lms/internal/media"
	"lms/internal/model"
	"lms/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateCourseInput carries the required course fields.
type CreateCourseInput struct {
	Title       string
	Description string
	Category    string
	CreatedBy   string
}

// UpdateCourseInput carries the optional partial fields of a course update.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Category    *string
	CreatedBy   *string
}

// AddLectureInput carries the required lecture fields.
type AddLectureInput struct {
	Title       string
	Description string
}

// CourseService owns the course/lecture content lifecycle. File arguments
// are paths to per-request staged files; once handed to the uploader they are
// gone from disk regardless of the outcome.
type CourseService interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourseLectures(ctx context.Context, courseID string) (model.Lectures, error)
	CreateCourse(ctx context.Context, in CreateCourseInput, thumbnailPath string) (*model.Course, error)
	UpdateCourse(ctx context.Context, courseID string, in UpdateCourseInput) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
	AddLecture(ctx context.Context, courseID string, in AddLectureInput, videoPath string) (*model.Course, error)
	RemoveLecture(ctx context.Context, courseID, lectureID string) (*model.Course, error)
}

// courseService is the implementation of CourseService
type courseService struct {
	repo     repository.CourseRepository
	uploader media.Uploader
	logger   zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, uploader media.Uploader, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:     repo,
		uploader: uploader,
		logger:   logger.With().Str("service", "CourseService").Logger(),
	}
}

// ListCourses returns all courses with lecture detail stripped.
func (s *courseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list courses")
		return nil, err
	}
	return courses, nil
}

// GetCourseLectures returns the full lecture sequence of a course.
func (s *courseService) GetCourseLectures(ctx context.Context, courseID string) (model.Lectures, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course")
		return nil, err
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "course does not exist")
	}
	return course.Lectures, nil
}

// CreateCourse persists the course with the placeholder thumbnail, then
// patches the thumbnail if a staged image was supplied. An upload failure is
// returned to the caller but does not roll the persisted course back.
func (s *courseService) CreateCourse(ctx context.Context, in CreateCourseInput, thumbnailPath string) (*model.Course, error) {
	if in.Title == "" || in.Description == "" || in.Category == "" || in.CreatedBy == "" {
		return nil, apperr.New(apperr.Validation, "all fields are required")
	}

	course := &model.Course{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CreatedBy:   in.CreatedBy,
		Thumbnail:   model.PlaceholderThumbnail,
	}
	if err := s.repo.CreateCourse(ctx, course); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create course")
		return nil, err
	}

	if thumbnailPath == "" {
		return course, nil
	}

	ref, err := s.uploader.Upload(ctx, thumbnailPath, media.KindImage)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", course.ID).Msg("Thumbnail upload failed, course keeps placeholder")
		return nil, err
	}
	if err := s.repo.SetThumbnail(ctx, course.ID, ref); err != nil {
		s.logger.Error().Err(err).Str("course_id", course.ID).Msg("Failed to patch thumbnail reference")
		return nil, err
	}
	course.Thumbnail = ref
	return course, nil
}

// UpdateCourse merges the provided fields into the existing record.
func (s *courseService) UpdateCourse(ctx context.Context, courseID string, in UpdateCourseInput) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course for update")
		return nil, err
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "course does not exist")
	}

	if in.Title != nil {
		course.Title = *in.Title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Category != nil {
		course.Category = *in.Category
	}
	if in.CreatedBy != nil {
		course.CreatedBy = *in.CreatedBy
	}
	if course.Title == "" || course.Description == "" || course.Category == "" || course.CreatedBy == "" {
		return nil, apperr.New(apperr.Validation, "all fields are required")
	}

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to update course")
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes the course record. Lecture assets in the object store
// are left behind; see the repository docs for the accepted leak.
func (s *courseService) DeleteCourse(ctx context.Context, courseID string) error {
	deleted, err := s.repo.DeleteCourse(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course")
		return err
	}
	if !deleted {
		return apperr.New(apperr.NotFound, "course does not exist")
	}
	return nil
}

// AddLecture uploads the staged video (when present) and appends the lecture
// atomically. If the course vanishes between upload and append, the freshly
// stored asset is destroyed best-effort so it does not orphan.
func (s *courseService) AddLecture(ctx context.Context, courseID string, in AddLectureInput, videoPath string) (*model.Course, error) {
	if in.Title == "" || in.Description == "" {
		return nil, apperr.New(apperr.Validation, "all fields are required")
	}

	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course for lecture add")
		return nil, err
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "course does not exist")
	}

	lecture := model.Lecture{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
	}

	if videoPath != "" {
		ref, err := s.uploader.Upload(ctx, videoPath, media.KindVideo)
		if err != nil {
			return nil, err
		}
		lecture.Asset = &ref
	}

	updated, err := s.repo.AppendLecture(ctx, courseID, lecture)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to append lecture")
		return nil, err
	}
	if updated == nil {
		if lecture.Asset != nil {
			if destroyErr := s.uploader.Destroy(ctx, lecture.Asset.AssetID, media.KindVideo); destroyErr != nil {
				s.logger.Warn().Err(destroyErr).Str("asset_id", lecture.Asset.AssetID).Msg("Failed to destroy orphaned lecture asset")
			}
		}
		return nil, apperr.New(apperr.NotFound, "course does not exist")
	}
	return updated, nil
}

// RemoveLecture destroys the stored asset best-effort, then removes the
// lecture record. The record removal is the source of truth; a failed remote
// destroy is logged and accepted as a degraded outcome.
func (s *courseService) RemoveLecture(ctx context.Context, courseID, lectureID string) (*model.Course, error) {
	if courseID == "" {
		return nil, apperr.New(apperr.Validation, "course id is required")
	}
	if lectureID == "" {
		return nil, apperr.New(apperr.Validation, "lecture id is required")
	}

	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course for lecture removal")
		return nil, err
	}
	if course == nil {
		return nil, apperr.New(apperr.NotFound, "invalid id or course does not exist")
	}

	lecture := course.LectureByID(lectureID)
	if lecture == nil {
		return nil, apperr.New(apperr.NotFound, "lecture does not exist")
	}

	if lecture.Asset != nil {
		if err := s.uploader.Destroy(ctx, lecture.Asset.AssetID, media.KindVideo); err != nil {
			s.logger.Warn().Err(err).Str("asset_id", lecture.Asset.AssetID).Msg("Failed to destroy lecture asset, removing record anyway")
		}
	}

	updated, err := s.repo.RemoveLecture(ctx, courseID, lectureID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("lecture_id", lectureID).Msg("Failed to remove lecture")
		return nil, err
	}
	if updated == nil {
		return nil, apperr.New(apperr.NotFound, "lecture does not exist")
	}
	return updated, nil
}
