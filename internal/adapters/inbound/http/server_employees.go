package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
)

type listEmployeesResp struct {
	Items []employeeResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListEmployees(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var opts []domain.ListEmployeesOption
	if q := r.URL.Query().Get("query"); q != "" {
		opts = append(opts, domain.WithEmployeeNameContains(q))
	}

	employees, hasMore, err := api.EmployeeRepo.ListEmployees(r.Context(), page, pageSize, opts...)
	if err != nil {
		api.Logger.Printf("Error listing employees: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listEmployeesResp{Items: []employeeResp{}, pagination: toPagination(page, hasMore)}
	for _, e := range employees {
		resp.Items = append(resp.Items, toEmployee(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (api *AcademyServer) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid employee id: %v", err))
		return
	}

	employee, found, err := api.EmployeeRepo.GetEmployee(r.Context(), id)
	if err != nil {
		api.Logger.Printf("Error getting employee: %v", err)
		respondError(w, toError(err))
		return
	}
	if !found {
		respondError(w, toError(domain.NewNotFoundErr(fmt.Sprintf("employee %s not found", id))))
		return
	}

	respondJSON(w, http.StatusOK, toEmployee(employee))
}

type createEmployeeReq struct {
	Name   string           `json:"name"`
	Role   string           `json:"role"`
	Phone  string           `json:"phone"`
	Email  string           `json:"email"`
	Salary *decimal.Decimal `json:"salary"`
}

func (api *AcademyServer) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	employee := domain.Employee{
		Name:  req.Name,
		Role:  req.Role,
		Phone: req.Phone,
		Email: req.Email,
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}

	var created domain.Employee
	err := api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		created, err = api.EmployeeCreator.Create(r.Context(), uow, employee)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error creating employee: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toEmployee(created))
}

type updateEmployeeReq struct {
	Name   *string          `json:"name"`
	Role   *string          `json:"role"`
	Phone  *string          `json:"phone"`
	Email  *string          `json:"email"`
	Salary *decimal.Decimal `json:"salary"`
}

func (api *AcademyServer) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid employee id: %v", err))
		return
	}

	var req updateEmployeeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var updated domain.Employee
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		employee, found, err := uow.Employee().GetEmployee(r.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("employee %s not found", id))
		}

		if req.Name != nil {
			employee.Name = *req.Name
		}
		if req.Role != nil {
			employee.Role = *req.Role
		}
		if req.Phone != nil {
			employee.Phone = *req.Phone
		}
		if req.Email != nil {
			employee.Email = *req.Email
		}
		if req.Salary != nil {
			employee.Salary = *req.Salary
		}

		updated, err = api.EmployeeUpdater.Update(r.Context(), uow, employee)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error updating employee: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toEmployee(updated))
}

func (api *AcademyServer) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid employee id: %v", err))
		return
	}

	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		return api.EmployeeDeleter.Delete(r.Context(), uow, id)
	})
	if err != nil {
		api.Logger.Printf("Error deleting employee: %v", err)
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
