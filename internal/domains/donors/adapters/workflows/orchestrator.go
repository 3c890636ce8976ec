package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/bloodlink/bloodlink-api/internal/domains/donors/application"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
	donationactivities "github.com/bloodlink/bloodlink-api/internal/platform/temporal/activities/donations"
	donationworkflows "github.com/bloodlink/bloodlink-api/internal/platform/temporal/workflows/donations"
)

var (
	_ ports.IntakeOrchestrator = (*TemporalDonationIntake)(nil)
	_ ports.IntakeOrchestrator = (*InlineDonationIntake)(nil)
)

// TemporalDonationIntake starts donation intake workflows on a
// Temporal cluster.
type TemporalDonationIntake struct {
	client    client.Client
	taskQueue string
}

// NewTemporalDonationIntake wires a Temporal client into the orchestrator.
func NewTemporalDonationIntake(c client.Client) *TemporalDonationIntake {
	return &TemporalDonationIntake{client: c, taskQueue: donationworkflows.DonationIntakeTaskQueue}
}

// RecordDonation starts the Temporal workflow that records a blood bag.
func (o *TemporalDonationIntake) RecordDonation(ctx context.Context, input ports.RecordDonationInput) (*domain.Donation, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal donation intake not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("donation-intake-%d-%d-%s", input.DonorID, input.InstitutionID, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		donationworkflows.DonationIntakeWorkflow,
		donationworkflows.DonationIntakeWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var donation domain.Donation
			if err := existingRun.Get(ctx, &donation); err != nil {
				return nil, translateWorkflowError(err)
			}
			return &donation, nil
		}
		return nil, err
	}
	var donation domain.Donation
	if err := run.Get(ctx, &donation); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &donation, nil
}

// translateWorkflowError restores the application sentinel hidden
// inside a non-retryable rejection so transport error mapping keeps
// working when the intake runs durably.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || appErr.Type() != donationactivities.DonationRejectedErrorType {
		return err
	}
	message := appErr.Message()
	for _, sentinel := range []error{
		application.ErrNotEligible,
		application.ErrInvalidInput,
		ports.ErrInstitutionNotFound,
		ports.ErrNotFound,
	} {
		if strings.Contains(message, sentinel.Error()) {
			return fmt.Errorf("%w: donation rejected", sentinel)
		}
	}
	return err
}

// InlineDonationIntake executes the service directly without Temporal,
// useful for tests or dev fallbacks.
type InlineDonationIntake struct {
	service ports.Service
}

// NewInlineDonationIntake wraps the donor service for synchronous execution.
func NewInlineDonationIntake(service ports.Service) *InlineDonationIntake {
	return &InlineDonationIntake{service: service}
}

// RecordDonation delegates to the application service without durable orchestration.
func (o *InlineDonationIntake) RecordDonation(ctx context.Context, input ports.RecordDonationInput) (*domain.Donation, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline donation intake not configured")
	}
	return o.service.RecordDonation(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
