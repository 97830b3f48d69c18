package redis

import (
	"context"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/repository"
)

const (
	siteSettingsKey          = "site_settings"
	fieldMustApproveUsers    = "must_approve_users"
	fieldEmailTokenValidSecs = "email_token_valid_seconds"
)

type siteSettingsRepository struct {
	client   *redislib.Client
	defaults domain.SiteSettings
}

// NewSiteSettingsRepository stores runtime overrides in a Redis hash. Fields that
// are missing or unparsable fall back to defaults.
func NewSiteSettingsRepository(client *redislib.Client, defaults domain.SiteSettings) repository.SiteSettingsRepository {
	if defaults.EmailTokenValidFor <= 0 {
		defaults.EmailTokenValidFor = domain.DefaultEmailTokenValidFor
	}
	return &siteSettingsRepository{client: client, defaults: defaults}
}

func (r *siteSettingsRepository) Get(ctx context.Context) (domain.SiteSettings, error) {
	values, err := r.client.HGetAll(ctx, siteSettingsKey).Result()
	if err != nil {
		return domain.SiteSettings{}, err
	}

	settings := r.defaults
	if raw, ok := values[fieldMustApproveUsers]; ok {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			settings.MustApproveUsers = parsed
		}
	}
	if raw, ok := values[fieldEmailTokenValidSecs]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			settings.EmailTokenValidFor = time.Duration(parsed) * time.Second
		}
	}
	return settings, nil
}

func (r *siteSettingsRepository) Save(ctx context.Context, settings domain.SiteSettings) error {
	if settings.EmailTokenValidFor <= 0 {
		settings.EmailTokenValidFor = r.defaults.EmailTokenValidFor
	}
	return r.client.HSet(ctx, siteSettingsKey,
		fieldMustApproveUsers, strconv.FormatBool(settings.MustApproveUsers),
		fieldEmailTokenValidSecs, strconv.Itoa(int(settings.EmailTokenValidFor.Seconds())),
	).Err()
}
