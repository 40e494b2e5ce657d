package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

type listTasksResp struct {
	Items []taskResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var opts []domain.ListTasksOption
	if q := r.URL.Query().Get("query"); q != "" {
		opts = append(opts, domain.WithTaskTitleContains(q))
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if status != domain.TaskStatus_Open && status != domain.TaskStatus_Done {
			respondBadRequest(w, fmt.Sprintf("unknown task status: %s", raw))
			return
		}
		opts = append(opts, domain.WithTaskStatus(status))
	}

	tasks, hasMore, err := api.TaskRepo.ListTasks(r.Context(), page, pageSize, opts...)
	if err != nil {
		api.Logger.Printf("Error listing tasks: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listTasksResp{Items: []taskResp{}, pagination: toPagination(page, hasMore)}
	for _, t := range tasks {
		resp.Items = append(resp.Items, toTask(t))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (api *AcademyServer) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid task id: %v", err))
		return
	}

	task, found, err := api.TaskRepo.GetTask(r.Context(), id)
	if err != nil {
		api.Logger.Printf("Error getting task: %v", err)
		respondError(w, toError(err))
		return
	}
	if !found {
		respondError(w, toError(domain.NewNotFoundErr(fmt.Sprintf("task %s not found", id))))
		return
	}

	respondJSON(w, http.StatusOK, toTask(task))
}

type createTaskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

func (api *AcademyServer) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	dueDate, err := domain.ResolveDueDate(req.DueDate, api.TimeProvider.Now(), time.Local)
	if err != nil {
		respondError(w, toError(err))
		return
	}

	task := domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     dueDate,
	}

	var created domain.Task
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		created, err = api.TaskCreator.Create(r.Context(), uow, task)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error creating task: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toTask(created))
}

type updateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

func (api *AcademyServer) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid task id: %v", err))
		return
	}

	var req updateTaskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var updated domain.Task
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		task, found, err := uow.Task().GetTask(r.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("task %s not found", id))
		}

		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Priority != nil {
			task.Priority = domain.TaskPriority(*req.Priority)
		}
		if req.Status != nil {
			task.Status = domain.TaskStatus(*req.Status)
		}
		if req.DueDate != nil {
			dueDate, err := domain.ResolveDueDate(*req.DueDate, api.TimeProvider.Now(), time.Local)
			if err != nil {
				return err
			}
			task.DueDate = dueDate
		}

		updated, err = api.TaskUpdater.Update(r.Context(), uow, task)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error updating task: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toTask(updated))
}

func (api *AcademyServer) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid task id: %v", err))
		return
	}

	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		return api.TaskDeleter.Delete(r.Context(), uow, id)
	})
	if err != nil {
		api.Logger.Printf("Error deleting task: %v", err)
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
