package pet

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dramacsoport/petclinic-backend/internal/platform/apperr"
	"github.com/dramacsoport/petclinic-backend/internal/platform/middleware"
	requestutil "github.com/dramacsoport/petclinic-backend/internal/platform/request"
	"github.com/dramacsoport/petclinic-backend/internal/platform/respond"
	"github.com/dramacsoport/petclinic-backend/internal/platform/validate"
	"github.com/dramacsoport/petclinic-backend/pkg/pagination"
	"github.com/dramacsoport/petclinic-backend/pkg/pointer"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.listPets)
	router.Post("/", handler.createPet)
	router.Delete("/{id}", handler.deletePet)
	return router
}

func (handler *Handler) listPets(writer http.ResponseWriter, request *http.Request) {
	callerEmail, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	pets, total, err := handler.service.ListOwn(request.Context(), callerEmail, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, pets, pagination.NewMeta(params.Page, params.Limit, total))
}

type createPetRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	BirthDate string `json:"birth_date"`
}

func (handler *Handler) createPet(writer http.ResponseWriter, request *http.Request) {
	callerEmail, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, 50).
		MaxLen("species", input.Species, 50)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var birthDate *time.Time
	if input.BirthDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", input.BirthDate)
		if parseErr != nil {
			respond.Error(writer, request, apperr.ValidationError("birth_date must be formatted as YYYY-MM-DD"))
			return
		}
		birthDate = pointer.To(parsed)
	}

	newPet, err := handler.service.Create(request.Context(), callerEmail, CreateInput{
		Name:      input.Name,
		Species:   input.Species,
		BirthDate: birthDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, newPet)
}

func (handler *Handler) deletePet(writer http.ResponseWriter, request *http.Request) {
	callerEmail, err := requestutil.RequiredEmail(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	petID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), callerEmail, petID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
