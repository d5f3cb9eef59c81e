// Package developer contains the HTTP handlers for the /growdevers
// resource.
//
// Every handler is built by a factory that receives its dependencies and
// returns an http.HandlerFunc, so the store is injected once at startup:
//
//	router.HandleFunc("POST /growdevers", developer.New(store))
package developer

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/growdev/growdevers-api/internal/query"
	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/types"
	"github.com/growdev/growdevers-api/internal/utils/response"
	"github.com/growdev/growdevers-api/internal/validation"
)

// Envelope messages.
const (
	MsgListed        = "Lista de Growdevers obtida com sucesso"
	MsgListFailed    = "Não foi possível obter a lista de Growdevers"
	MsgInvalidParams = "Parâmetros inválidos"
	MsgFound         = "Growdever obtido com sucesso"
	MsgGetFailed     = "Não foi possível obter o Growdever"
	MsgNotFound      = "Growdever não encontrado"
	MsgCreated       = "Growdever criado com sucesso"
	MsgCreateFailed  = "Não foi possível criar o Growdever"
	MsgUpdated       = "Growdever atualizado com sucesso"
	MsgUpdateFailed  = "Não foi possível atualizar o Growdever"
	MsgDeleted       = "Growdever excluído com sucesso"
	MsgDeleteFailed  = "Não foi possível excluir o Growdever"
	MsgInvalidBody   = "Corpo da requisição inválido"
)

// GetList handles GET /growdevers.
//
// Query parameters name, email, email_includes, age and registered filter
// the collection; mode decides how several of them combine.
func GetList(s storage.Storage, mode query.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter, err := query.Parse(q)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Fail(MsgInvalidParams))
			return
		}
		slog.Info("listing developers", slog.Any("filters", filter.Active()))

		all, err := s.ListDevelopers()
		if err != nil {
			slog.Error("error listing developers", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(MsgListFailed, err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Success(MsgListed, filter.Apply(all, mode)))
	}
}

// GetByID handles GET /growdevers/{id}.
func GetByID(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a developer", slog.String("id", id))

		dev, err := s.GetDeveloperByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Fail(MsgNotFound))
			return
		}
		if err != nil {
			slog.Error("error getting developer",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(MsgGetFailed, err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Success(MsgFound, dev))
	}
}

// New handles POST /growdevers.
//
//	{ "name": "Ana", "email": "a@x.com", "age": 20, "registered": true }
//
// Responds 201 with the stored record, including its generated id.
func New(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a developer")

		dev, ok := decodeAndValidate(w, r)
		if !ok {
			return
		}

		created, err := s.CreateDeveloper(dev)
		if err != nil {
			slog.Error("error creating developer", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(MsgCreateFailed, err))
			return
		}

		slog.Info("developer created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, response.Success(MsgCreated, created))
	}
}

// Update handles PUT /growdevers/{id}, replacing every field but the id.
//
// With requireRegistered set, a developer that exists but is not
// registered is rejected before the payload is looked at. Validation runs
// before the existence check, so an invalid payload for an unknown id is a
// 400 rather than a 404.
func Update(s storage.Storage, requireRegistered bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a developer", slog.String("id", id))

		if requireRegistered {
			if err := validation.RequireRegistered(s, id); err != nil {
				if validation.IsValidationError(err) {
					response.WriteJSON(w, http.StatusBadRequest, response.Fail(err.Error()))
					return
				}
				slog.Error("error checking registration",
					slog.String("id", id),
					slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError,
					response.GeneralError(MsgUpdateFailed, err))
				return
			}
		}

		dev, ok := decodeAndValidate(w, r)
		if !ok {
			return
		}

		updated, err := s.UpdateDeveloperByID(id, dev)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Fail(MsgNotFound))
			return
		}
		if err != nil {
			slog.Error("error updating developer",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(MsgUpdateFailed, err))
			return
		}

		slog.Info("developer updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Success(MsgUpdated, updated))
	}
}

// Toggle handles PATCH /growdevers/{id}, flipping the registered flag.
func Toggle(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("toggling developer registration", slog.String("id", id))

		dev, err := s.ToggleRegisteredByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Fail(MsgNotFound))
			return
		}
		if err != nil {
			slog.Error("error toggling developer",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(MsgUpdateFailed, err))
			return
		}

		slog.Info("developer toggled",
			slog.String("id", id),
			slog.Bool("registered", dev.Registered))
		response.WriteJSON(w, http.StatusOK, response.Success(MsgUpdated, dev))
	}
}

// Delete handles DELETE /growdevers/{id}. The success envelope has no data.
func Delete(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a developer", slog.String("id", id))

		err := s.DeleteDeveloperByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Fail(MsgNotFound))
			return
		}
		if err != nil {
			slog.Error("error deleting developer",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(MsgDeleteFailed, err))
			return
		}

		slog.Info("developer deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Success(MsgDeleted, nil))
	}
}

// decodeAndValidate reads the request body and runs the payload rules. It
// writes the 400 response itself and reports false when the request should
// stop. An empty body is treated as an empty object.
func decodeAndValidate(w http.ResponseWriter, r *http.Request) (types.Developer, bool) {
	var in types.DeveloperInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if err != nil && !errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(MsgInvalidBody, err))
		return types.Developer{}, false
	}

	dev, err := validation.Developer(in)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.Fail(err.Error()))
		return types.Developer{}, false
	}

	return dev, true
}
