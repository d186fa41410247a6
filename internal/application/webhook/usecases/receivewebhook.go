package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachly/coachly/internal/application/webhook/dto"
	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/logger"
)

type ReceiveWebhookCommand struct {
	Headers  webhook.SignatureHeaders
	Body     []byte
	ClientIP string
}

// ReceiveWebhookOptions selects how a claimed event is processed.
type ReceiveWebhookOptions struct {
	// Async hands claimed events to the queue and acknowledges at once.
	Async bool
	// ProcessTimeout bounds inline processing in sync mode.
	ProcessTimeout time.Duration
	// Lease is how long a pending claim blocks redeliveries.
	Lease time.Duration
}

// ReceiveWebhookUseCase authenticates a delivery, records it in the ledger and
// dispatches it. Signature and parse failures write nothing.
type ReceiveWebhookUseCase struct {
	verifier  webhook.SignatureVerifier
	ledger    webhook.IdempotencyRepository
	processor EventProcessor
	queue     EventQueue
	opts      ReceiveWebhookOptions
	logger    logger.Interface
}

func NewReceiveWebhookUseCase(
	verifier webhook.SignatureVerifier,
	ledger webhook.IdempotencyRepository,
	processor EventProcessor,
	queue EventQueue,
	opts ReceiveWebhookOptions,
	logger logger.Interface,
) *ReceiveWebhookUseCase {
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = 5 * time.Second
	}
	if opts.Lease <= 0 {
		opts.Lease = 2 * time.Minute
	}
	return &ReceiveWebhookUseCase{
		verifier:  verifier,
		ledger:    ledger,
		processor: processor,
		queue:     queue,
		opts:      opts,
		logger:    logger,
	}
}

// Execute returns webhook.ErrInvalidSignature or webhook.ErrMalformedEvent for
// deliveries that must not be retried as-is. Any other error asks the
// processor to redeliver.
func (uc *ReceiveWebhookUseCase) Execute(ctx context.Context, cmd ReceiveWebhookCommand) (*dto.WebhookAckDTO, error) {
	if err := uc.verifier.Verify(cmd.Headers, cmd.Body); err != nil {
		uc.logger.Warnw("webhook signature rejected",
			"error", err,
			"client_ip", cmd.ClientIP,
			"transmission_id", cmd.Headers.TransmissionID,
		)
		if !errors.Is(err, webhook.ErrInvalidSignature) {
			err = fmt.Errorf("%w: %v", webhook.ErrInvalidSignature, err)
		}
		return nil, err
	}

	now := biztime.NowUTC()
	env, err := webhook.ParseEnvelope(cmd.Body, now)
	if err != nil {
		uc.logger.Warnw("malformed webhook event rejected", "error", err, "client_ip", cmd.ClientIP)
		return nil, err
	}

	record, err := webhook.NewIdempotencyRecord(env, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger record: %w", err)
	}

	claim, stored, err := uc.ledger.Claim(ctx, record, uc.opts.Lease)
	if err != nil {
		uc.logger.Errorw("failed to claim webhook event", "error", err, "event_id", env.EventID)
		return nil, fmt.Errorf("failed to claim webhook event: %w", err)
	}

	if !claim.Owned() {
		if stored != nil && stored.PayloadHash() != record.PayloadHash() {
			uc.logger.Warnw("redelivered event id carries a different payload",
				"event_id", env.EventID,
				"event_type", env.EventType,
			)
		}
		uc.logger.Infow("duplicate webhook delivery acknowledged",
			"event_id", env.EventID,
			"event_type", env.EventType,
			"claim", claim.String(),
		)
		status := dto.AckDuplicate
		if claim == valueobjects.ClaimInFlight {
			status = dto.AckInFlight
		}
		return &dto.WebhookAckDTO{EventID: env.EventID, Status: status}, nil
	}

	uc.logger.Infow("webhook event claimed",
		"event_id", env.EventID,
		"event_type", env.EventType,
		"event_kind", env.Kind.String(),
		"resource_id", env.ResourceID,
		"claim", claim.String(),
	)

	if uc.opts.Async {
		if !uc.queue.Enqueue(env) {
			// The pending row is the durable copy; the sweeper replays it.
			uc.logger.Warnw("webhook queue full, leaving event to the retry sweeper", "event_id", env.EventID)
			return &dto.WebhookAckDTO{EventID: env.EventID, Status: dto.AckAccepted}, nil
		}
		return &dto.WebhookAckDTO{EventID: env.EventID, Status: dto.AckQueued}, nil
	}

	processCtx, cancel := context.WithTimeout(ctx, uc.opts.ProcessTimeout)
	defer cancel()
	if err := uc.processor.Execute(processCtx, env); err != nil {
		return nil, fmt.Errorf("failed to process webhook event: %w", err)
	}
	return &dto.WebhookAckDTO{EventID: env.EventID, Status: dto.AckProcessed}, nil
}
