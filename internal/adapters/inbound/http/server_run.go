package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/mirahq/academy-crm/internal/assistant"
	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// AcademyServer is the REST API HTTP server for the academy CRM.
type AcademyServer struct {
	Port   int         `config:"HTTP_PORT" default:"8080"`
	Logger *log.Logger `resolve:""`

	Uow domain.UnitOfWork `resolve:""`

	StudentRepo  domain.StudentRepository      `resolve:""`
	EmployeeRepo domain.EmployeeRepository     `resolve:""`
	CourseRepo   domain.CourseRepository       `resolve:""`
	TaskRepo     domain.TaskRepository         `resolve:""`
	FinanceRepo  domain.FinanceRepository      `resolve:""`
	TimeProvider domain.CurrentTimeProvider    `resolve:""`

	StudentCreator  usecases.StudentCreator  `resolve:""`
	StudentUpdater  usecases.StudentUpdater  `resolve:""`
	StudentDeleter  usecases.StudentDeleter  `resolve:""`
	StudentEnroller usecases.StudentEnroller `resolve:""`
	PaymentRecorder usecases.PaymentRecorder `resolve:""`
	EmployeeCreator usecases.EmployeeCreator `resolve:""`
	EmployeeUpdater usecases.EmployeeUpdater `resolve:""`
	EmployeeDeleter usecases.EmployeeDeleter `resolve:""`
	CourseCreator   usecases.CourseCreator   `resolve:""`
	CourseUpdater   usecases.CourseUpdater   `resolve:""`
	CourseDeleter   usecases.CourseDeleter   `resolve:""`
	TaskCreator     usecases.TaskCreator     `resolve:""`
	TaskUpdater     usecases.TaskUpdater     `resolve:""`
	TaskDeleter     usecases.TaskDeleter     `resolve:""`
	IncomeRecorder  usecases.IncomeRecorder  `resolve:""`
	ExpenseRecorder usecases.ExpenseRecorder `resolve:""`

	SendTurnUseCase          usecases.SendTurn          `resolve:""`
	ListConversationUseCase  usecases.ListConversation  `resolve:""`
	ClearConversationUseCase usecases.ClearConversation `resolve:""`
	SessionManager           *assistant.LiveSessionManager `resolve:""`

	// turnInFlight enforces one assistant turn at a time. A second chat
	// request while one runs gets a 409 instead of interleaving replies.
	turnInFlight sync.Mutex
	turnBusy     bool
}

// Run starts the HTTP server for the AcademyServer.
func (api *AcademyServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	api.registerRoutes(mux)

	h := telemetry.HttpHandler(mux, "academy-api")

	// Apply CORS at the top-level so preflight requests hit it, too.
	h = cors.AllowAll().Handler(h)

	s := &http.Server{
		Handler: h,
		Addr:    fmt.Sprintf(":%d", api.Port),
	}

	errCh := make(chan error, 1)
	go func() {
		api.Logger.Printf("AcademyServer: Listening on port %d", api.Port)
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		if err != nil {
			api.Logger.Printf("AcademyServer: error during shutdown: %v", err)
		} else {
			api.Logger.Println("AcademyServer: stopped")
		}
		return err
	case err := <-errCh:
		return err
	}
}

func (api *AcademyServer) registerRoutes(mux *http.ServeMux) {
	// Register introspection endpoint for debugging and testing purposes
	mux.HandleFunc("GET /introspect", IntrospectHandler)

	mux.HandleFunc("GET /students", api.ListStudents)
	mux.HandleFunc("POST /students", api.CreateStudent)
	mux.HandleFunc("GET /students/{id}", api.GetStudent)
	mux.HandleFunc("PUT /students/{id}", api.UpdateStudent)
	mux.HandleFunc("DELETE /students/{id}", api.DeleteStudent)
	mux.HandleFunc("POST /students/{id}/enrollments", api.EnrollStudent)
	mux.HandleFunc("GET /students/{id}/payments", api.ListStudentPayments)
	mux.HandleFunc("POST /students/{id}/payments", api.RecordStudentPayment)

	mux.HandleFunc("GET /employees", api.ListEmployees)
	mux.HandleFunc("POST /employees", api.CreateEmployee)
	mux.HandleFunc("GET /employees/{id}", api.GetEmployee)
	mux.HandleFunc("PUT /employees/{id}", api.UpdateEmployee)
	mux.HandleFunc("DELETE /employees/{id}", api.DeleteEmployee)

	mux.HandleFunc("GET /courses", api.ListCourses)
	mux.HandleFunc("POST /courses", api.CreateCourse)
	mux.HandleFunc("GET /courses/{id}", api.GetCourse)
	mux.HandleFunc("PUT /courses/{id}", api.UpdateCourse)
	mux.HandleFunc("DELETE /courses/{id}", api.DeleteCourse)

	mux.HandleFunc("GET /tasks", api.ListTasks)
	mux.HandleFunc("POST /tasks", api.CreateTask)
	mux.HandleFunc("GET /tasks/{id}", api.GetTask)
	mux.HandleFunc("PUT /tasks/{id}", api.UpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", api.DeleteTask)

	mux.HandleFunc("GET /finance/income", api.ListIncome)
	mux.HandleFunc("POST /finance/income", api.RecordIncome)
	mux.HandleFunc("GET /finance/expenses", api.ListExpenses)
	mux.HandleFunc("POST /finance/expenses", api.RecordExpense)
	mux.HandleFunc("GET /finance/summary", api.GetFinancialSummary)

	mux.HandleFunc("POST /assistant/chat", api.SendChatTurn)
	mux.HandleFunc("GET /assistant/conversation", api.ListConversationMessages)
	mux.HandleFunc("DELETE /assistant/conversation", api.ClearConversationMessages)
	mux.HandleFunc("GET /assistant/live", api.LiveSession)
}

// IsReady checks if the AcademyServer is ready by performing a health check.
func (api *AcademyServer) IsReady(ctx context.Context) error {
	resp, err := http.Get(fmt.Sprintf("http://:%d/finance/summary", api.Port))
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
