package domain

import "time"

// SiteSettings holds the site-wide policy consulted during activation.
type SiteSettings struct {
	MustApproveUsers   bool          `json:"must_approve_users"`
	EmailTokenValidFor time.Duration `json:"email_token_valid_for"`
}
