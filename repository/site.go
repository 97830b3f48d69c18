package repository

import (
	"context"

	"github.com/fastygo/onboarding/domain"
)

type SiteSettingsRepository interface {
	Get(ctx context.Context) (domain.SiteSettings, error)
	Save(ctx context.Context, settings domain.SiteSettings) error
}
