package service

import (
	"context"

	"clinical-assistant-be/internal/dto"
	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/pkg/cache"
	"clinical-assistant-be/pkg/events"
	"clinical-assistant-be/pkg/nats"
	"clinical-assistant-be/pkg/rag/pipeline"
	"clinical-assistant-be/pkg/rag/session"
	"clinical-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// IChatService defines the clinical chat service interface
type IChatService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	ClearSession(ctx context.Context, sessionId string)
}

type chatService struct {
	orchestrator  *pipeline.Orchestrator
	sessions      *session.Manager
	responseCache *cache.ResponseCache
	auditPub      *nats.Publisher
	logger        logger.ILogger
}

// NewChatService creates a new chat service wiring the decision pipeline to
// session memory, the answer cache and the audit event stream.
func NewChatService(
	orchestrator *pipeline.Orchestrator,
	sessions *session.Manager,
	responseCache *cache.ResponseCache,
	auditPub *nats.Publisher,
	log logger.ILogger,
) IChatService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &chatService{
		orchestrator:  orchestrator,
		sessions:      sessions,
		responseCache: responseCache,
		auditPub:      auditPub,
		logger:        log,
	}
}

func (cs *chatService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = uuid.New().String()
	}

	sess := cs.sessions.LoadOrCreate(sessionId)

	// The cache is keyed on the question alone, so it only applies to
	// history-free turns. A follow-up question depends on the conversation.
	if cs.responseCache != nil && len(sess.History) == 0 {
		cached, err := cs.responseCache.Get(ctx, request.Question)
		if err != nil {
			cs.logger.Warn("chat_service", "Response cache lookup failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if cached != nil {
			cs.recordTurns(sess, request.Question, cached.Answer)
			return &dto.AskResponse{
				SessionId:       sessionId,
				Status:          string(pipeline.StatusAccepted),
				Answer:          cached.Answer,
				CitedSources:    cached.CitedSources,
				GroundingStatus: "grounded",
				RiskLevel:       "low",
				FromCache:       true,
			}, nil
		}
	}

	result, err := cs.orchestrator.Run(ctx, request.Question, sess.History)
	if err != nil {
		return nil, err
	}

	cs.recordTurns(sess, request.Question, result.Answer)
	cs.publishAudit(ctx, sessionId, result)

	if cs.responseCache != nil && result.Status == pipeline.StatusAccepted && len(sess.History) == 2 {
		if err := cs.responseCache.Set(ctx, request.Question, &cache.CachedResponse{
			Answer:       result.Answer,
			CitedSources: result.CitedSources,
		}); err != nil {
			cs.logger.Warn("chat_service", "Response cache store failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.AskResponse{
		SessionId:       sessionId,
		Status:          string(result.Status),
		Answer:          result.Answer,
		CitedSources:    result.CitedSources,
		GroundingStatus: string(result.GroundingStatus),
		RiskLevel:       string(result.RiskLevel),
		LoopCount:       result.LoopCount,
		CorrelationId:   result.CorrelationID,
	}, nil
}

func (cs *chatService) ClearSession(ctx context.Context, sessionId string) {
	cs.sessions.Clear(sessionId)
}

func (cs *chatService) recordTurns(sess *store.Session, question, answer string) {
	sess.AppendTurn("user", question)
	sess.AppendTurn("assistant", answer)
	cs.sessions.Save(sess)
}

// publishAudit emits a fire-and-forget audit event. Question text is never
// included; it may contain personal data.
func (cs *chatService) publishAudit(ctx context.Context, sessionId string, result *pipeline.FinalResult) {
	if cs.auditPub == nil {
		return
	}

	subject := events.SubjectPipelineCompleted
	switch result.Status {
	case pipeline.StatusRejected:
		subject = events.SubjectPipelineRejected
	case pipeline.StatusDegraded:
		subject = events.SubjectPipelineDegraded
	}

	event := events.PipelineAuditEvent{
		CorrelationID:   result.CorrelationID,
		SessionID:       sessionId,
		Status:          string(result.Status),
		GroundingStatus: string(result.GroundingStatus),
		RiskLevel:       string(result.RiskLevel),
		LoopCount:       result.LoopCount,
		CitedSources:    len(result.CitedSources),
	}
	if err := cs.auditPub.Publish(ctx, subject, event); err != nil {
		cs.logger.Warn("chat_service", "Audit event publish failed", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}
