package api

import (
	"context"
	"errors"

	campaignsports "github.com/bloodlink/bloodlink-api/internal/domains/campaigns/ports"
	donorsports "github.com/bloodlink/bloodlink-api/internal/domains/donors/ports"
	institutionsports "github.com/bloodlink/bloodlink-api/internal/domains/institutions/ports"
	ordersports "github.com/bloodlink/bloodlink-api/internal/domains/orders/ports"
)

// institutionDirectory adapts the institutions service to the
// directory ports the other bounded contexts depend on. Each context
// declares its own summary type so none of them imports another's
// domain.
type institutionDirectory struct {
	institutions institutionsports.Service
}

func newInstitutionDirectory(institutions institutionsports.Service) *institutionDirectory {
	return &institutionDirectory{institutions: institutions}
}

func (d *institutionDirectory) summary(ctx context.Context, id int64) (int64, string, string, string, bool, error) {
	summary, err := d.institutions.Summary(ctx, id)
	if err != nil {
		if errors.Is(err, institutionsports.ErrNotFound) {
			return 0, "", "", "", false, nil
		}
		return 0, "", "", "", false, err
	}
	return summary.ID, summary.Name, summary.Phone, summary.Address, true, nil
}

type ordersDirectory struct{ *institutionDirectory }

func (d ordersDirectory) Summary(ctx context.Context, id int64) (ordersports.InstitutionSummary, error) {
	instID, name, phone, address, found, err := d.summary(ctx, id)
	if err != nil {
		return ordersports.InstitutionSummary{}, err
	}
	if !found {
		return ordersports.InstitutionSummary{}, ordersports.ErrInstitutionNotFound
	}
	return ordersports.InstitutionSummary{ID: instID, Name: name, Phone: phone, Address: address}, nil
}

type donorsDirectory struct{ *institutionDirectory }

func (d donorsDirectory) Summary(ctx context.Context, id int64) (donorsports.InstitutionSummary, error) {
	instID, name, phone, address, found, err := d.summary(ctx, id)
	if err != nil {
		return donorsports.InstitutionSummary{}, err
	}
	if !found {
		return donorsports.InstitutionSummary{}, donorsports.ErrInstitutionNotFound
	}
	return donorsports.InstitutionSummary{ID: instID, Name: name, Phone: phone, Address: address}, nil
}

type campaignsDirectory struct{ *institutionDirectory }

func (d campaignsDirectory) Summary(ctx context.Context, id int64) (campaignsports.InstitutionSummary, error) {
	instID, name, phone, address, found, err := d.summary(ctx, id)
	if err != nil {
		return campaignsports.InstitutionSummary{}, err
	}
	if !found {
		return campaignsports.InstitutionSummary{}, campaignsports.ErrInstitutionNotFound
	}
	return campaignsports.InstitutionSummary{ID: instID, Name: name, Phone: phone, Address: address}, nil
}
