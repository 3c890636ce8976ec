package donations

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	donorsdomain "github.com/bloodlink/bloodlink-api/internal/domains/donors/domain"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
	donationactivities "github.com/bloodlink/bloodlink-api/internal/platform/temporal/activities/donations"
)

const (
	// DonationIntakeWorkflowName is the public identifier for registering the workflow.
	DonationIntakeWorkflowName = "donations.workflows.Intake"
	// DonationIntakeTaskQueue is the queue consumed by the worker processing donation workflows.
	DonationIntakeTaskQueue = "DONATION_INTAKE"
)

// DonationIntakeWorkflowInput captures the payload required to record a donation.
type DonationIntakeWorkflowInput struct {
	Command donorsports.RecordDonationInput
	TraceID string
}

// DonationIntakeWorkflow orchestrates the activity that records one
// blood bag and its stock credit.
func DonationIntakeWorkflow(ctx workflow.Context, input DonationIntakeWorkflowInput) (*donorsdomain.Donation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("DonationIntakeWorkflow started",
		withTraceID(input.TraceID, "donorId", input.Command.DonorID, "institutionId", input.Command.InstitutionID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			// eligibility failures never heal on retry
			NonRetryableErrorTypes: []string{donationactivities.DonationRejectedErrorType},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var donation donorsdomain.Donation
	err := workflow.ExecuteActivity(ctx, donationactivities.RecordDonationActivityName, input.Command).Get(ctx, &donation)
	if err != nil {
		logger.Error("DonationIntakeWorkflow failed",
			withTraceID(input.TraceID, "donorId", input.Command.DonorID, "error", err)...)
		return nil, err
	}
	logger.Info("DonationIntakeWorkflow completed", withTraceID(input.TraceID, "donationId", donation.ID)...)
	return &donation, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
