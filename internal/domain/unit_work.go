package domain

import "context"

// UnitOfWork represents a unit of work for managing repositories and transactions.
type UnitOfWork interface {
	// Student returns the repository for managing students.
	Student() StudentRepository
	// Employee returns the repository for managing employees.
	Employee() EmployeeRepository
	// Course returns the repository for managing courses.
	Course() CourseRepository
	// Task returns the repository for managing tasks.
	Task() TaskRepository
	// Finance returns the repository for managing bookkeeping records.
	Finance() FinanceRepository
	// Memory returns the repository for managing assistant memory.
	Memory() MemoryRepository
	// Knowledge returns the repository for managing reference material.
	Knowledge() KnowledgeRepository
	// Conversation returns the repository for managing the conversation log.
	Conversation() ConversationRepository
	// Outbox returns the repository for managing outbox events.
	Outbox() OutboxRepository
	// Execute runs a function within the context of a unit of work.
	Execute(ctx context.Context, fn func(uow UnitOfWork) error) error
}
