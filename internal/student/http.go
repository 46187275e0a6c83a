package student

import (
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the student endpoints. Role enforcement happens in
// the router-level authorization middleware, not per route here.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listStudents)
	router.Get("/{id}", handler.getStudent)
	router.Post("/", handler.createStudent)
	router.Put("/{id}", handler.updateStudent)
	router.Delete("/{id}", handler.deleteStudent)
}

func (handler *Handler) listStudents(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}
	if raw := request.URL.Query().Get("course_id"); raw != "" {
		if courseID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.CourseID = courseID
		}
	}

	students, total, err := handler.service.ListStudents(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, students, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getStudent(writer http.ResponseWriter, request *http.Request) {
	studentID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.GetStudent(request.Context(), studentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) createStudent(writer http.ResponseWriter, request *http.Request) {
	var input Student
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateStudent(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateStudent(writer http.ResponseWriter, request *http.Request) {
	studentID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Student
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateStudent(request.Context(), studentID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteStudent(writer http.ResponseWriter, request *http.Request) {
	studentID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteStudent(request.Context(), studentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
