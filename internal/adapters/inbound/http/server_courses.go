package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
)

type listCoursesResp struct {
	Items []courseResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListCourses(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var opts []domain.ListCoursesOption
	if q := r.URL.Query().Get("query"); q != "" {
		opts = append(opts, domain.WithCourseNameContains(q))
	}

	courses, hasMore, err := api.CourseRepo.ListCourses(r.Context(), page, pageSize, opts...)
	if err != nil {
		api.Logger.Printf("Error listing courses: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listCoursesResp{Items: []courseResp{}, pagination: toPagination(page, hasMore)}
	for _, c := range courses {
		resp.Items = append(resp.Items, toCourse(c))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (api *AcademyServer) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid course id: %v", err))
		return
	}

	course, found, err := api.CourseRepo.GetCourse(r.Context(), id)
	if err != nil {
		api.Logger.Printf("Error getting course: %v", err)
		respondError(w, toError(err))
		return
	}
	if !found {
		respondError(w, toError(domain.NewNotFoundErr(fmt.Sprintf("course %s not found", id))))
		return
	}

	respondJSON(w, http.StatusOK, toCourse(course))
}

type createCourseReq struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Fee           *decimal.Decimal `json:"fee"`
	DurationWeeks int              `json:"duration_weeks"`
}

func (api *AcademyServer) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	course := domain.Course{
		Name:          req.Name,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
	}
	if req.Fee != nil {
		course.Fee = *req.Fee
	}

	var created domain.Course
	err := api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		created, err = api.CourseCreator.Create(r.Context(), uow, course)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error creating course: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toCourse(created))
}

type updateCourseReq struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Fee           *decimal.Decimal `json:"fee"`
	DurationWeeks *int             `json:"duration_weeks"`
}

func (api *AcademyServer) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid course id: %v", err))
		return
	}

	var req updateCourseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var updated domain.Course
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		course, found, err := uow.Course().GetCourse(r.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("course %s not found", id))
		}

		if req.Name != nil {
			course.Name = *req.Name
		}
		if req.Description != nil {
			course.Description = *req.Description
		}
		if req.Fee != nil {
			course.Fee = *req.Fee
		}
		if req.DurationWeeks != nil {
			course.DurationWeeks = *req.DurationWeeks
		}

		updated, err = api.CourseUpdater.Update(r.Context(), uow, course)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error updating course: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toCourse(updated))
}

func (api *AcademyServer) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid course id: %v", err))
		return
	}

	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		return api.CourseDeleter.Delete(r.Context(), uow, id)
	})
	if err != nil {
		api.Logger.Printf("Error deleting course: %v", err)
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
