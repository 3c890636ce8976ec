package ports

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink-api/internal/domains/campaigns/domain"
)

var ErrCampaignNotFound = errors.New("campaign not found")

type UrgentCallRepository interface {
	Save(ctx context.Context, call *domain.UrgentCall) (*domain.UrgentCall, error)
	List(ctx context.Context) ([]*domain.UrgentCall, error)
	Delete(ctx context.Context, id int64) error
}

type BloodDriveRepository interface {
	Save(ctx context.Context, drive *domain.BloodDrive) (*domain.BloodDrive, error)
	List(ctx context.Context) ([]*domain.BloodDrive, error)
}
