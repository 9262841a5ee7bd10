package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lms/internal/api/v1/dto"
	"lms/internal/api/v1/response"
	"lms/internal/apperr"
	"lms/internal/middleware"
	"lms/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// multipartMemoryLimit is how much of a multipart body stays in memory
// before net/http spills to its own temp files.
const multipartMemoryLimit = 32 << 20

// CourseHandler handles course and lecture endpoints
type CourseHandler struct {
	courseService  service.CourseService
	validate       *validator.Validate
	uploadDir      string
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler. uploadDir is the per-request
// staging area for multipart files on their way to the object store.
func NewCourseHandler(courseService service.CourseService, validate *validator.Validate, uploadDir string, maxUploadBytes int64, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		validate:       validate,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes. Gates differ per method on the same
// pattern, so the gated sub-handlers are built here and dispatched manually.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authenticate, adminOnly, subscriberOnly func(http.Handler) http.Handler) {
	admin := middleware.Chain(authenticate, adminOnly)
	subscriber := middleware.Chain(authenticate, subscriberOnly)

	createCourse := admin(http.HandlerFunc(h.createCourse))
	removeLecture := admin(http.HandlerFunc(h.removeLecture))
	mux.Handle("/courses", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listCourses(w, r)
		case http.MethodPost:
			createCourse.ServeHTTP(w, r)
		case http.MethodDelete:
			removeLecture.ServeHTTP(w, r)
		default:
			response.NotFound(w, h.logger)
		}
	}))

	getLectures := subscriber(http.HandlerFunc(h.getCourseLectures))
	updateCourse := admin(http.HandlerFunc(h.updateCourse))
	deleteCourse := admin(http.HandlerFunc(h.deleteCourse))
	addLecture := admin(http.HandlerFunc(h.addLecture))
	mux.Handle("/courses/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getLectures.ServeHTTP(w, r)
		case http.MethodPut:
			updateCourse.ServeHTTP(w, r)
		case http.MethodDelete:
			deleteCourse.ServeHTTP(w, r)
		case http.MethodPost:
			addLecture.ServeHTTP(w, r)
		default:
			response.NotFound(w, h.logger)
		}
	}))
}

// listCourses godoc
// @Summary List all courses
// @Description Returns every course with the lecture detail stripped.
// @Tags courses
// @Produce json
// @Success 200 {object} response.Body
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "all courses", map[string]any{
		"courses": dto.CourseSummariesFromModel(courses),
	})
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a course from multipart fields with an optional thumbnail file.
// @Tags courses
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Body
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		response.Err(w, h.logger, apperr.Wrap(apperr.Validation, "invalid multipart payload", err))
		return
	}

	form := dto.CourseCreateForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		CreatedBy:   strings.TrimSpace(r.FormValue("createdBy")),
	}
	if err := h.validate.Struct(&form); err != nil {
		response.Err(w, h.logger, apperr.Wrap(apperr.Validation, "validation failed: "+err.Error(), err))
		return
	}

	stagedPath, err := h.stageFile(r, "thumbnail")
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	if stagedPath != "" {
		// Backstop for exits that never reach the uploader; the uploader
		// removes the staged file itself once invoked.
		defer h.discardStaged(stagedPath)
	}

	course, err := h.courseService.CreateCourse(r.Context(), service.CreateCourseInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		CreatedBy:   form.CreatedBy,
	}, stagedPath)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}

	response.OK(w, h.logger, http.StatusCreated, "course created successfully", map[string]any{
		"course": dto.CourseFromModel(course),
	})
}

// getCourseLectures godoc
// @Summary Get course lectures
// @Description Returns the full lecture sequence of a course.
// @Tags courses
// @Produce json
// @Success 200 {object} response.Body
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourseLectures(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDFromPath(r)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	lectures, err := h.courseService.GetCourseLectures(r.Context(), courseID)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "course lectures fetched successfully", map[string]any{
		"lectures": dto.LecturesFromModel(lectures),
	})
}

// updateCourse godoc
// @Summary Update a course
// @Description Merges the provided JSON fields into the course.
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {object} response.Body
// @Router /courses/{courseId} [put]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDFromPath(r)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	var req dto.CourseUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, h.logger, apperr.Wrap(apperr.Validation, "invalid JSON payload", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.Err(w, h.logger, apperr.Wrap(apperr.Validation, "validation failed: "+err.Error(), err))
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseID, service.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "course updated successfully", map[string]any{
		"course": dto.CourseFromModel(course),
	})
}

// deleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Success 200 {object} response.Body
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDFromPath(r)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "course deleted successfully", nil)
}

// addLecture godoc
// @Summary Add a lecture to a course
// @Description Appends a lecture from multipart fields with an optional video file.
// @Tags courses
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Body
// @Router /courses/{courseId} [post]
func (h *CourseHandler) addLecture(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDFromPath(r)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		response.Err(w, h.logger, apperr.Wrap(apperr.Validation, "invalid multipart payload", err))
		return
	}

	form := dto.LectureCreateForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := h.validate.Struct(&form); err != nil {
		response.Err(w, h.logger, apperr.Wrap(apperr.Validation, "validation failed: "+err.Error(), err))
		return
	}

	stagedPath, err := h.stageFile(r, "lecture")
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	if stagedPath != "" {
		defer h.discardStaged(stagedPath)
	}

	course, err := h.courseService.AddLecture(r.Context(), courseID, service.AddLectureInput{
		Title:       form.Title,
		Description: form.Description,
	}, stagedPath)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}

	response.OK(w, h.logger, http.StatusOK, "lecture added successfully", map[string]any{
		"course": dto.CourseFromModel(course),
	})
}

// removeLecture godoc
// @Summary Remove a lecture
// @Description Removes a lecture selected by courseId and lectureId query params.
// @Tags courses
// @Produce json
// @Success 200 {object} response.Body
// @Router /courses [delete]
func (h *CourseHandler) removeLecture(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	lectureID := r.URL.Query().Get("lectureId")

	if _, err := h.courseService.RemoveLecture(r.Context(), courseID, lectureID); err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "course lecture removed successfully", nil)
}

// stageFile copies the named multipart file into the staging directory and
// returns its path, or "" when the field is absent.
func (h *CourseHandler) stageFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperr.Wrap(apperr.Validation, "invalid file field "+field, err)
	}
	defer file.Close()

	staged, err := os.CreateTemp(h.uploadDir, "staged-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "failed to stage upload", err)
	}
	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		h.discardStaged(staged.Name())
		return "", apperr.Wrap(apperr.Internal, "failed to stage upload", err)
	}
	if err := staged.Close(); err != nil {
		h.discardStaged(staged.Name())
		return "", apperr.Wrap(apperr.Internal, "failed to stage upload", err)
	}
	return staged.Name(), nil
}

// discardStaged removes a staged file this request created. Only the
// request's own file is touched, never the rest of the staging directory.
func (h *CourseHandler) discardStaged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove staged upload file")
	}
}

// courseIDFromPath extracts the course id path segment.
func courseIDFromPath(r *http.Request) (string, error) {
	courseID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/courses/"), "/")
	if courseID == "" || strings.Contains(courseID, "/") {
		return "", apperr.New(apperr.Validation, "invalid course id")
	}
	return courseID, nil
}
