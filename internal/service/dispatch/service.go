package dispatch

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/amberhq/campaign-gateway/internal/errors"
	"github.com/amberhq/campaign-gateway/internal/gateway"
	"github.com/amberhq/campaign-gateway/internal/logger"
	"github.com/amberhq/campaign-gateway/internal/metrics"
	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/amberhq/campaign-gateway/internal/repository"
	"github.com/amberhq/campaign-gateway/internal/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DispatchEventsKafkaTopic carries terminal dispatch events, relayed from
// the outbox table by Debezium.
const DispatchEventsKafkaTopic = "campaign.dispatches"

// outboxAggregate tags dispatch rows in the shared outbox table.
const outboxAggregate = "dispatch"

// Service runs one campaign notification end to end:
//
//	received -> template_resolved -> rendered -> sent -> recorded -> completed
//
// failed is terminal and reachable from any stage. One request, one send
// attempt: no retries, no compensation of earlier stages.
type Service struct {
	db        *sqlx.DB
	templates repository.TemplatesRepository
	responses repository.ResponsesRepository
	outbox    repository.OutboxRepository
	gw        gateway.Client
}

// New constructs the dispatch service.
func New(
	db *sqlx.DB,
	templatesRepo repository.TemplatesRepository,
	responsesRepo repository.ResponsesRepository,
	outboxRepo repository.OutboxRepository,
	gw gateway.Client,
) *Service {
	return &Service{
		db:        db,
		templates: templatesRepo,
		responses: responsesRepo,
		outbox:    outboxRepo,
		gw:        gw,
	}
}

// Dispatch resolves the template, renders it with the vendor's name, sends
// the message through the WhatsApp gateway and, only after a successful
// send, records the pending response row. Returns the provider message id.
func (s *Service) Dispatch(ctx context.Context, req model.NotificationRequest) (model.DispatchResult, error) {
	log := logger.L().With(
		zap.String("campaign_id", req.CampaignID),
		zap.String("vendor_id", req.VendorID),
		zap.String("template_id", req.TemplateID),
	)
	metrics.DispatchStagesTotal.WithLabelValues(model.StateReceived.String()).Inc()

	tmpl, err := s.resolveTemplate(ctx, req.TemplateID, log)
	if err != nil {
		return model.DispatchResult{}, s.fail(ctx, req, "", err, log)
	}
	metrics.DispatchStagesTotal.WithLabelValues(model.StateTemplateResolved.String()).Inc()

	// The request binds exactly one variable; templates declaring others
	// keep those placeholders as literals.
	body := Render(tmpl.Content, tmpl.Variables, map[string]string{
		"vendor_name": req.VendorName,
	})
	metrics.DispatchStagesTotal.WithLabelValues(model.StateRendered.String()).Inc()

	res, err := s.gw.Send(ctx, req.VendorPhone, body)
	if err != nil {
		return model.DispatchResult{}, s.fail(ctx, req, "", err, log)
	}
	metrics.DispatchStagesTotal.WithLabelValues(model.StateSent.String()).Inc()
	log.Info("notification sent", zap.String("message_sid", res.MessageSID))

	if err := s.record(ctx, req, res.MessageSID); err != nil {
		return model.DispatchResult{}, s.fail(ctx, req, res.MessageSID, err, log)
	}
	metrics.DispatchStagesTotal.WithLabelValues(model.StateRecorded.String()).Inc()
	metrics.DispatchStagesTotal.WithLabelValues(model.StateCompleted.String()).Inc()

	return model.DispatchResult{MessageSID: res.MessageSID}, nil
}

// resolveTemplate folds every lookup failure, missing row or store error
// alike, into template_not_found. The store cause travels inside the error
// for logs and never reaches clients.
func (s *Service) resolveTemplate(ctx context.Context, templateID string, log *zap.Logger) (*model.Template, error) {
	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		log.Error("template lookup failed", zap.Error(err))
		return nil, apperrors.NewTemplateNotFound(templateID, err)
	}
	if tmpl == nil {
		return nil, apperrors.NewTemplateNotFound(templateID, nil)
	}
	return tmpl, nil
}

// record upserts the pending response row and the completed dispatch event
// in one transaction, so the audit stream never claims a completion the
// response table doesn't show.
func (s *Service) record(ctx context.Context, req model.NotificationRequest, messageSID string) error {
	rec := model.ResponseRecord{
		ID:         util.NewID(),
		CampaignID: req.CampaignID,
		VendorID:   req.VendorID,
		FormData:   model.FormData{},
		Status:     model.ResponsePending,
	}

	payload, ev, err := s.buildEvent(req, model.StateCompleted, "", messageSID)
	if err != nil {
		return apperrors.NewPersistenceError("marshal dispatch event", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewPersistenceError("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.responses.Upsert(ctx, tx, rec); err != nil {
		return apperrors.NewPersistenceError("upsert response", err)
	}

	if err := s.outbox.Insert(ctx, tx, model.OutboxEvent{
		Aggregate:   outboxAggregate,
		AggregateID: ev.ID,
		Topic:       DispatchEventsKafkaTopic,
		Payload:     payload,
	}); err != nil {
		return apperrors.NewPersistenceError("insert outbox event", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewPersistenceError("commit tx", err)
	}
	return nil
}

// fail finalizes a dispatch in the failed state: counts it, logs it, and
// emits a best-effort failure event. The event write is standalone and its
// outcome never changes the error handed back to the caller.
func (s *Service) fail(ctx context.Context, req model.NotificationRequest, messageSID string, err error, log *zap.Logger) error {
	reason := "internal"
	if kind, ok := apperrors.KindOf(err); ok {
		reason = string(kind)
	}

	metrics.DispatchStagesTotal.WithLabelValues(model.StateFailed.String()).Inc()
	metrics.DispatchFailuresTotal.WithLabelValues(reason).Inc()
	log.Error("dispatch failed", zap.String("reason", reason), zap.Error(err))

	payload, ev, merr := s.buildEvent(req, model.StateFailed, reason, messageSID)
	if merr == nil {
		if oerr := s.outbox.Insert(ctx, nil, model.OutboxEvent{
			Aggregate:   outboxAggregate,
			AggregateID: ev.ID,
			Topic:       DispatchEventsKafkaTopic,
			Payload:     payload,
		}); oerr != nil {
			log.Warn("failure event not recorded", zap.Error(oerr))
		}
	}

	return err
}

func (s *Service) buildEvent(req model.NotificationRequest, st model.DispatchState, reason, messageSID string) ([]byte, model.DispatchEvent, error) {
	ev := model.DispatchEvent{
		ID:         util.NewID(),
		CampaignID: req.CampaignID,
		VendorID:   req.VendorID,
		TemplateID: req.TemplateID,
		State:      st,
		Reason:     reason,
		MessageSID: messageSID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, ev, err
	}
	return payload, ev, nil
}
