package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/contenedorjem/cursos/internal/platform/request"
	"github.com/contenedorjem/cursos/internal/platform/respond"
	"github.com/contenedorjem/cursos/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the course endpoints. Role enforcement happens in
// the router-level authorization middleware, not per route here.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCourses)
	router.Get("/{id}", handler.getCourse)
	router.Get("/by-slug/{slug}", handler.getCourseBySlug)
	router.Post("/", handler.createCourse)
	router.Put("/{id}", handler.updateCourse)
	router.Delete("/{id}", handler.deleteCourse)
}

func (handler *Handler) listCourses(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}

	courses, total, err := handler.service.ListCourses(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getCourse(writer http.ResponseWriter, request *http.Request) {
	courseID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.GetCourse(request.Context(), courseID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) getCourseBySlug(writer http.ResponseWriter, request *http.Request) {
	courseSlug := requestutil.Param(request, "slug")

	record, err := handler.service.GetCourseBySlug(request.Context(), courseSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) createCourse(writer http.ResponseWriter, request *http.Request) {
	var input Course
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateCourse(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateCourse(writer http.ResponseWriter, request *http.Request) {
	courseID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Course
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateCourse(request.Context(), courseID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteCourse(writer http.ResponseWriter, request *http.Request) {
	courseID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteCourse(request.Context(), courseID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
