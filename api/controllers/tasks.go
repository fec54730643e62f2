package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/tasks"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

type createTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	AssigneeID  *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (req createTaskRequest) toInput() (tasks.CreateTaskInput, error) {
	input := tasks.CreateTaskInput{
		Title:       validators.SanitizeString(req.Title),
		Description: req.Description,
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return tasks.CreateTaskInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignee id")
		}
		input.AssigneeID = &assigneeID
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return tasks.CreateTaskInput{}, err
		}
		input.DueDate = &due
	}
	return input, nil
}

func CreateTask(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createTaskRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.Create(r.Context(), input, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, task)
	}
}

func ListTasks(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := tasks.ListFilters{}
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseTaskStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task status"))
				return
			}
			filters.Status = &parsed
		}
		assigneeID, err := validators.ParseQueryUUID(r, "assignee_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.AssigneeID = assigneeID
		dueBefore, err := validators.ParseQueryDate(r, "due_before")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.DueBefore = dueBefore

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetTask(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := validators.PathUUID(chi.URLParam(r, "id"), "task id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.GetByID(r.Context(), taskID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	AssigneeID  *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (req updateTaskRequest) toInput() (tasks.UpdateTaskInput, error) {
	input := tasks.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return tasks.UpdateTaskInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignee id")
		}
		input.AssigneeID = &assigneeID
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return tasks.UpdateTaskInput{}, err
		}
		input.DueDate = &due
	}
	return input, nil
}

func UpdateTask(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := validators.PathUUID(chi.URLParam(r, "id"), "task id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTaskRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.Update(r.Context(), taskID, input, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

type taskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateTaskStatus(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := validators.PathUUID(chi.URLParam(r, "id"), "task id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload taskStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseTaskStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid task status"))
			return
		}

		task, err := svc.UpdateStatus(r.Context(), taskID, target, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

func DeleteTask(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := validators.PathUUID(chi.URLParam(r, "id"), "task id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), taskID, actorID(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
