package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
)

type listStudentsResp struct {
	Items []studentResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListStudents(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	var opts []domain.ListStudentsOption
	if q := r.URL.Query().Get("query"); q != "" {
		opts = append(opts, domain.WithStudentNameContains(q))
	}
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(w, fmt.Sprintf("invalid course_id: %v", err))
			return
		}
		opts = append(opts, domain.WithStudentCourse(courseID))
	}

	students, hasMore, err := api.StudentRepo.ListStudents(r.Context(), page, pageSize, opts...)
	if err != nil {
		api.Logger.Printf("Error listing students: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listStudentsResp{Items: []studentResp{}, pagination: toPagination(page, hasMore)}
	for _, s := range students {
		resp.Items = append(resp.Items, toStudent(s))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (api *AcademyServer) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid student id: %v", err))
		return
	}

	student, found, err := api.StudentRepo.GetStudent(r.Context(), id)
	if err != nil {
		api.Logger.Printf("Error getting student: %v", err)
		respondError(w, toError(err))
		return
	}
	if !found {
		respondError(w, toError(domain.NewNotFoundErr(fmt.Sprintf("student %s not found", id))))
		return
	}

	respondJSON(w, http.StatusOK, toStudent(student))
}

type createStudentReq struct {
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	Email    string           `json:"email"`
	TotalFee *decimal.Decimal `json:"total_fee"`
	Notes    string           `json:"notes"`
}

func (api *AcademyServer) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	student := domain.Student{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	}
	if req.TotalFee != nil {
		student.TotalFee = *req.TotalFee
	}

	var created domain.Student
	err := api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		created, err = api.StudentCreator.Create(r.Context(), uow, student)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error creating student: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toStudent(created))
}

type updateStudentReq struct {
	Name     *string          `json:"name"`
	Phone    *string          `json:"phone"`
	Email    *string          `json:"email"`
	TotalFee *decimal.Decimal `json:"total_fee"`
	Notes    *string          `json:"notes"`
}

func (api *AcademyServer) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid student id: %v", err))
		return
	}

	var req updateStudentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var updated domain.Student
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		student, found, err := uow.Student().GetStudent(r.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("student %s not found", id))
		}

		if req.Name != nil {
			student.Name = *req.Name
		}
		if req.Phone != nil {
			student.Phone = *req.Phone
		}
		if req.Email != nil {
			student.Email = *req.Email
		}
		if req.TotalFee != nil {
			student.TotalFee = *req.TotalFee
		}
		if req.Notes != nil {
			student.Notes = *req.Notes
		}

		updated, err = api.StudentUpdater.Update(r.Context(), uow, student)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error updating student: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toStudent(updated))
}

func (api *AcademyServer) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid student id: %v", err))
		return
	}

	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		return api.StudentDeleter.Delete(r.Context(), uow, id)
	})
	if err != nil {
		api.Logger.Printf("Error deleting student: %v", err)
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type enrollStudentReq struct {
	CourseID uuid.UUID `json:"course_id"`
}

func (api *AcademyServer) EnrollStudent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid student id: %v", err))
		return
	}

	var req enrollStudentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.CourseID == uuid.Nil {
		respondBadRequest(w, "course_id cannot be empty")
		return
	}

	var enrolled domain.Student
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		enrolled, err = api.StudentEnroller.Enroll(r.Context(), uow, id, req.CourseID)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error enrolling student: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toStudent(enrolled))
}

type listPaymentsResp struct {
	Items []paymentResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListStudentPayments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid student id: %v", err))
		return
	}
	page, pageSize := parsePaging(r)

	payments, hasMore, err := api.FinanceRepo.ListPayments(r.Context(), &id, page, pageSize)
	if err != nil {
		api.Logger.Printf("Error listing payments: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listPaymentsResp{Items: []paymentResp{}, pagination: toPagination(page, hasMore)}
	for _, p := range payments {
		resp.Items = append(resp.Items, toPayment(p))
	}
	respondJSON(w, http.StatusOK, resp)
}

type recordPaymentReq struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt *time.Time      `json:"paid_at"`
	Notes  string          `json:"notes"`
}

func (api *AcademyServer) RecordStudentPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid student id: %v", err))
		return
	}

	var req recordPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	payment := domain.Payment{
		StudentID: id,
		Amount:    req.Amount,
		Method:    domain.PaymentMethod(req.Method),
		Notes:     req.Notes,
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	}

	var student domain.Student
	err = api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		student, err = api.PaymentRecorder.Record(r.Context(), uow, payment)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error recording payment: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toStudent(student))
}
