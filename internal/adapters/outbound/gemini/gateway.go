package gemini

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// Gateway implements domain.ModelGateway on top of the Gemini API.
type Gateway struct {
	client    *genai.Client
	turnModel string
	liveModel string
	logger    *log.Logger
}

// NewGateway creates a new Gateway.
func NewGateway(client *genai.Client, turnModel, liveModel string, logger *log.Logger) Gateway {
	return Gateway{
		client:    client,
		turnModel: turnModel,
		liveModel: liveModel,
		logger:    logger,
	}
}

// GenerateTurn performs one request/response exchange with tools attached.
func (g Gateway) GenerateTurn(ctx context.Context, req domain.TurnRequest) (domain.TurnResult, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("model", g.turnModel),
		attribute.Int("tools", len(req.Tools)),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if tools := toGenaiTools(req.Tools); tools != nil {
		config.Tools = tools
	}

	resp, err := g.client.Models.GenerateContent(spanCtx, g.turnModel, toGenaiContents(req.Messages), config)
	if err != nil {
		gerr := classifyErr(err)
		telemetry.RecordErrorAndStatus(span, gerr)
		return domain.TurnResult{}, gerr
	}

	if resp.UsageMetadata != nil {
		usecases.RecordModelTokensUsed(spanCtx,
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
	}

	if calls := resp.FunctionCalls(); len(calls) > 0 {
		return domain.TurnResult{ToolCalls: fromFunctionCalls(calls)}, nil
	}

	return domain.TurnResult{Text: resp.Text()}, nil
}

// ConnectLive opens a persistent duplex voice session.
func (g Gateway) ConnectLive(ctx context.Context, cfg domain.LiveConfig) (domain.LiveStream, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("model", g.liveModel),
		attribute.String("voice", cfg.Voice),
	))
	defer span.End()

	connectConfig := &genai.LiveConnectConfig{
		ResponseModalities:       []genai.Modality{genai.ModalityAudio},
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}
	if cfg.SystemInstruction != "" {
		connectConfig.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if tools := toGenaiTools(cfg.Tools); tools != nil {
		connectConfig.Tools = tools
	}
	if cfg.Voice != "" {
		connectConfig.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}

	session, err := g.client.Live.Connect(spanCtx, g.liveModel, connectConfig)
	if err != nil {
		gerr := classifyErr(err)
		telemetry.RecordErrorAndStatus(span, gerr)
		return nil, gerr
	}

	return newLiveStream(session, g.logger), nil
}
