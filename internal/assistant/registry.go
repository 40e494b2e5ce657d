package assistant

import (
	"context"
	"fmt"
	"log"

	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// ToolManager manages the assistant tool catalog and dispatches tool calls.
type ToolManager struct {
	tools   map[string]domain.Tool
	ordered []string
	logger  *log.Logger
}

// NewToolManager creates a new ToolManager with the provided tools. Catalog
// order follows registration order.
func NewToolManager(logger *log.Logger, tools ...domain.Tool) ToolManager {
	toolMap := make(map[string]domain.Tool, len(tools))
	ordered := make([]string, 0, len(tools))
	for _, tool := range tools {
		name := tool.Definition().Name
		if _, exists := toolMap[name]; !exists {
			ordered = append(ordered, name)
		}
		toolMap[name] = tool
	}
	return ToolManager{
		tools:   toolMap,
		ordered: ordered,
		logger:  logger,
	}
}

// List returns all registered tool definitions in registration order.
func (m ToolManager) List() []domain.ToolDefinition {
	toolList := make([]domain.ToolDefinition, 0, len(m.ordered))
	for _, name := range m.ordered {
		toolList = append(toolList, m.tools[name].Definition())
	}
	return toolList
}

// StatusMessage returns a status message about the tool execution.
func (m ToolManager) StatusMessage(functionName string) string {
	if tool, ok := m.tools[functionName]; ok {
		if msg := tool.StatusMessage(); msg != "" {
			return msg
		}
	}
	return "⏳ Processing request..."
}

// Dispatch executes a batch of tool calls sequentially and returns exactly one
// response per call carrying a non-empty ID, in call order. Calls with an empty
// ID are logged and skipped. A failing call never aborts the batch.
func (m ToolManager) Dispatch(ctx context.Context, calls []domain.ToolCall) []domain.ToolResponse {
	responses := make([]domain.ToolResponse, 0, len(calls))
	for _, call := range calls {
		if call.ID == "" {
			m.logger.Printf("skipping tool call with empty ID: function=%s", call.Name)
			continue
		}
		responses = append(responses, m.dispatchOne(ctx, call))
	}
	return responses
}

func (m ToolManager) dispatchOne(ctx context.Context, call domain.ToolCall) (resp domain.ToolResponse) {
	spanCtx, span := telemetry.Start(ctx,
		trace.WithAttributes(
			attribute.String("tool.function", call.Name),
		),
	)
	defer span.End()

	tool, exists := m.tools[call.Name]
	if !exists {
		return domain.ToolResponse{
			ID:     call.ID,
			Name:   call.Name,
			Result: map[string]any{"error": "Unknown function"},
		}
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Printf("tool %s panicked: %v", call.Name, r)
			resp = domain.ToolResponse{
				ID:    call.ID,
				Name:  call.Name,
				Error: fmt.Sprintf("Function execution failed: %v", r),
			}
		}
	}()

	resp = tool.Call(spanCtx, call)
	if resp.Error != "" {
		telemetry.RecordErrorAndStatus(span, fmt.Errorf("%s", resp.Error))
	}
	return resp
}

// InitToolRegistry wires the tool catalog into the dependency container.
type InitToolRegistry struct {
	Logger          *log.Logger                `resolve:""`
	Uow             domain.UnitOfWork          `resolve:""`
	Resolver        Resolver                   `resolve:""`
	TimeProvider    domain.CurrentTimeProvider `resolve:""`
	StudentRepo     domain.StudentRepository   `resolve:""`
	EmployeeRepo    domain.EmployeeRepository  `resolve:""`
	CourseRepo      domain.CourseRepository    `resolve:""`
	TaskRepo        domain.TaskRepository      `resolve:""`
	FinanceRepo     domain.FinanceRepository   `resolve:""`
	StudentCreator  usecases.StudentCreator    `resolve:""`
	StudentUpdater  usecases.StudentUpdater    `resolve:""`
	StudentDeleter  usecases.StudentDeleter    `resolve:""`
	StudentEnroller usecases.StudentEnroller   `resolve:""`
	PaymentRecorder usecases.PaymentRecorder   `resolve:""`
	TaskCreator     usecases.TaskCreator       `resolve:""`
	TaskUpdater     usecases.TaskUpdater       `resolve:""`
	TaskDeleter     usecases.TaskDeleter       `resolve:""`
	EmployeeCreator usecases.EmployeeCreator   `resolve:""`
	EmployeeUpdater usecases.EmployeeUpdater   `resolve:""`
	EmployeeDeleter usecases.EmployeeDeleter   `resolve:""`
	CourseCreator   usecases.CourseCreator     `resolve:""`
	CourseUpdater   usecases.CourseUpdater     `resolve:""`
	CourseDeleter   usecases.CourseDeleter     `resolve:""`
	IncomeRecorder  usecases.IncomeRecorder    `resolve:""`
	ExpenseRecorder usecases.ExpenseRecorder   `resolve:""`
}

func (i InitToolRegistry) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.ToolRegistry](NewToolManager(
		i.Logger,
		NewMemoryTool(i.Uow, i.TimeProvider),
		NewStudentListTool(i.StudentRepo),
		NewStudentCreateTool(i.Uow, i.StudentCreator),
		NewStudentUpdateTool(i.Uow, i.StudentUpdater, i.Resolver),
		NewStudentDeleteTool(i.Uow, i.StudentDeleter, i.Resolver),
		NewStudentEnrollTool(i.Uow, i.StudentEnroller, i.Resolver),
		NewPaymentRecordTool(i.Uow, i.PaymentRecorder, i.Resolver, i.TimeProvider),
		NewTaskListTool(i.TaskRepo),
		NewTaskCreateTool(i.Uow, i.TaskCreator, i.TimeProvider),
		NewTaskUpdateTool(i.Uow, i.TaskUpdater, i.Resolver, i.TimeProvider),
		NewTaskDeleteTool(i.Uow, i.TaskDeleter, i.Resolver),
		NewEmployeeListTool(i.EmployeeRepo),
		NewEmployeeCreateTool(i.Uow, i.EmployeeCreator),
		NewEmployeeUpdateTool(i.Uow, i.EmployeeUpdater, i.Resolver),
		NewEmployeeDeleteTool(i.Uow, i.EmployeeDeleter, i.Resolver),
		NewCourseListTool(i.CourseRepo),
		NewCourseCreateTool(i.Uow, i.CourseCreator),
		NewCourseUpdateTool(i.Uow, i.CourseUpdater, i.Resolver),
		NewCourseDeleteTool(i.Uow, i.CourseDeleter, i.Resolver),
		NewIncomeCreateTool(i.Uow, i.IncomeRecorder, i.TimeProvider),
		NewExpenseCreateTool(i.Uow, i.ExpenseRecorder, i.TimeProvider),
		NewFinancialSummaryTool(i.FinanceRepo),
	))
	return ctx, nil
}
