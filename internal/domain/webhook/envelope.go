package webhook

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coachly/coachly/internal/domain/subscription"
	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
)

var validate = validator.New()

// maxReferenceLen is the widest user or plan reference that can be stored.
const maxReferenceLen = 128

type rawEnvelope struct {
	ID         string      `json:"id" validate:"required,max=128"`
	EventType  string      `json:"event_type" validate:"required,max=128"`
	CreateTime string      `json:"create_time"`
	Resource   rawResource `json:"resource"`
}

type rawResource struct {
	ID                 string          `json:"id" validate:"required,max=128"`
	BillingAgreementID string          `json:"billing_agreement_id" validate:"max=128"`
	CustomID           string          `json:"custom_id"`
	Custom             string          `json:"custom"`
	PlanID             string          `json:"plan_id"`
	BillingInfo        *rawBillingInfo `json:"billing_info"`
}

type rawBillingInfo struct {
	NextBillingTime string `json:"next_billing_time"`
}

// Envelope is an authenticated, parsed processor delivery.
type Envelope struct {
	EventID         string
	EventType       string
	Kind            valueobjects.EventKind
	ResourceID      string
	UserID          string
	PlanID          string
	EventTime       time.Time
	NextBillingTime *time.Time
	Payload         []byte
}

// ParseEnvelope decodes a delivery body. receivedAt stands in for the event
// time when the processor sent none. Every failure wraps ErrMalformedEvent.
func ParseEnvelope(body []byte, receivedAt time.Time) (*Envelope, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, malformed("invalid JSON: %v", err)
	}

	raw.ID = strings.TrimSpace(raw.ID)
	raw.EventType = strings.TrimSpace(raw.EventType)
	raw.Resource.ID = strings.TrimSpace(raw.Resource.ID)
	raw.Resource.BillingAgreementID = strings.TrimSpace(raw.Resource.BillingAgreementID)

	if err := validate.Struct(&raw); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, malformed("field %s failed %s", fieldErrs[0].Namespace(), fieldErrs[0].Tag())
		}
		return nil, malformed("%v", err)
	}

	eventTime := biztime.ToUTC(receivedAt)
	if raw.CreateTime != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw.CreateTime)
		if err != nil {
			return nil, malformed("invalid create_time %q", raw.CreateTime)
		}
		eventTime = biztime.ToUTC(parsed)
	}

	env := &Envelope{
		EventID:    raw.ID,
		EventType:  raw.EventType,
		Kind:       Normalize(raw.EventType),
		ResourceID: raw.Resource.ID,
		UserID:     optionalReference(raw.Resource.CustomID),
		PlanID:     optionalReference(raw.Resource.PlanID),
		EventTime:  eventTime,
		Payload:    body,
	}

	// Sale events reference their subscription through the billing agreement.
	if raw.Resource.BillingAgreementID != "" {
		env.ResourceID = raw.Resource.BillingAgreementID
	}
	if env.UserID == "" {
		env.UserID = optionalReference(raw.Resource.Custom)
	}

	if raw.Resource.BillingInfo != nil && raw.Resource.BillingInfo.NextBillingTime != "" {
		next, err := time.Parse(time.RFC3339Nano, raw.Resource.BillingInfo.NextBillingTime)
		if err != nil {
			return nil, malformed("invalid next_billing_time %q", raw.Resource.BillingInfo.NextBillingTime)
		}
		next = biztime.ToUTC(next)
		env.NextBillingTime = &next
	}

	return env, nil
}

// LifecycleEvent converts the envelope into the state machine's input.
func (e *Envelope) LifecycleEvent() subscription.LifecycleEvent {
	return subscription.LifecycleEvent{
		Kind:            e.Kind,
		EventTime:       e.EventTime,
		PlanID:          e.PlanID,
		NextBillingTime: e.NextBillingTime,
	}
}

// optionalReference trims an optional reference and drops one too wide to
// store, so the delivery is still accepted without it.
func optionalReference(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxReferenceLen {
		return ""
	}
	return s
}
