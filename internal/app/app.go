package app

import (
	"github.com/cleitonmarx/symbiont"

	"github.com/mirahq/academy-crm/internal/adapters/inbound/http"
	"github.com/mirahq/academy-crm/internal/adapters/inbound/workers"
	"github.com/mirahq/academy-crm/internal/adapters/outbound/config"
	"github.com/mirahq/academy-crm/internal/adapters/outbound/gemini"
	"github.com/mirahq/academy-crm/internal/adapters/outbound/log"
	"github.com/mirahq/academy-crm/internal/adapters/outbound/postgres"
	"github.com/mirahq/academy-crm/internal/adapters/outbound/pubsub"
	"github.com/mirahq/academy-crm/internal/adapters/outbound/time"
	"github.com/mirahq/academy-crm/internal/assistant"
	"github.com/mirahq/academy-crm/internal/telemetry"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// NewAcademyApp creates and returns a new instance of the academy CRM application.
func NewAcademyApp(initializers ...symbiont.Initializer) *symbiont.App {
	return symbiont.NewApp().
		Initialize(initializers...).
		Initialize(
			&log.InitLogger{},
			&telemetry.InitOpenTelemetry{},
			&telemetry.InitHttpClient{},
			&config.InitVaultProvider{},
			&postgres.InitDB{},
			&postgres.InitUnitOfWork{},
			&postgres.InitStudentRepository{},
			&postgres.InitEmployeeRepository{},
			&postgres.InitCourseRepository{},
			&postgres.InitTaskRepository{},
			&postgres.InitFinanceRepository{},
			&postgres.InitMemoryRepository{},
			&postgres.InitKnowledgeRepository{},
			&postgres.InitConversationRepository{},
			&time.InitCurrentTimeProvider{},
			&pubsub.InitClient{},
			&pubsub.InitPublisher{},
			&gemini.InitModelGateway{},

			&usecases.InitStudentService{},
			&usecases.InitEmployeeService{},
			&usecases.InitCourseService{},
			&usecases.InitTaskService{},
			&usecases.InitFinanceService{},

			&assistant.InitResolver{},
			&assistant.InitContextBuilder{},
			&assistant.InitToolRegistry{},

			&usecases.InitSendTurn{},
			&usecases.InitConversation{},
			&usecases.InitRelayOutbox{},
			&assistant.InitLiveSessionManager{},
		).
		Host(
			&http.AcademyServer{},
			&workers.MessageRelay{},
		).
		Introspect(&MermaidGraphIntrospector{})
}
