package handlers

import (
	"context"

	entitlementdto "github.com/coachly/coachly/internal/application/entitlement/dto"
	subdto "github.com/coachly/coachly/internal/application/subscription/dto"
	subscriptionUsecases "github.com/coachly/coachly/internal/application/subscription/usecases"
	webhookdto "github.com/coachly/coachly/internal/application/webhook/dto"
	webhookUsecases "github.com/coachly/coachly/internal/application/webhook/usecases"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockReceiveWebhookUC struct {
	result *webhookdto.WebhookAckDTO
	err    error
	cmd    webhookUsecases.ReceiveWebhookCommand
}

func (m *mockReceiveWebhookUC) Execute(ctx context.Context, cmd webhookUsecases.ReceiveWebhookCommand) (*webhookdto.WebhookAckDTO, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockCheckEntitlementUC struct {
	result *entitlementdto.EntitlementDTO
	userID string
}

func (m *mockCheckEntitlementUC) Execute(ctx context.Context, userID string) *entitlementdto.EntitlementDTO {
	m.userID = userID
	return m.result
}

type mockRegisterCheckoutUC struct {
	result *subdto.SubscriptionDTO
	err    error
	cmd    subscriptionUsecases.RegisterCheckoutCommand
}

func (m *mockRegisterCheckoutUC) Execute(ctx context.Context, cmd subscriptionUsecases.RegisterCheckoutCommand) (*subdto.SubscriptionDTO, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockGetCurrentSubscriptionUC struct {
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockGetCurrentSubscriptionUC) Execute(ctx context.Context, userID string) (*subdto.SubscriptionDTO, error) {
	return m.result, m.err
}

type mockGetSubscriptionUC struct {
	result *subdto.SubscriptionDTO
	err    error
	query  subscriptionUsecases.GetSubscriptionQuery
}

func (m *mockGetSubscriptionUC) Execute(ctx context.Context, query subscriptionUsecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error) {
	m.query = query
	return m.result, m.err
}

type mockReconcileUC struct {
	result *entitlementdto.ReconcileResultDTO
	err    error
}

func (m *mockReconcileUC) Run(ctx context.Context) (*entitlementdto.ReconcileResultDTO, error) {
	return m.result, m.err
}

type mockRetryEventsUC struct {
	result      *webhookdto.RetryResultDTO
	err         error
	maxAttempts int
	called      bool
}

func (m *mockRetryEventsUC) Run(ctx context.Context, maxAttempts int) (*webhookdto.RetryResultDTO, error) {
	m.called = true
	m.maxAttempts = maxAttempts
	return m.result, m.err
}

type mockGetWebhookEventUC struct {
	result *webhookdto.LedgerRecordDTO
	err    error
}

func (m *mockGetWebhookEventUC) Execute(ctx context.Context, eventID string) (*webhookdto.LedgerRecordDTO, error) {
	return m.result, m.err
}
