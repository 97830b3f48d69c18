package activation

import (
	"time"

	"github.com/fastygo/onboarding/domain"
)

// Kind identifies one of the mutually exclusive activation strategies.
type Kind int

const (
	KindLogin Kind = iota
	KindEmail
	KindApproval
	KindNoEmail
)

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindEmail:
		return "email"
	case KindApproval:
		return "approval"
	case KindNoEmail:
		return "no_email"
	default:
		return "unknown"
	}
}

// Select picks the activation strategy for user. It performs no I/O: the invite
// matching the user's normalized email must be fetched by the caller (nil when absent).
// The order of the checks is the business rule; the first match wins.
func Select(user *domain.User, site domain.SiteSettings, invite *domain.Invite, now time.Time) Kind {
	switch {
	case user.IsNoEmail():
		return KindNoEmail
	case !user.IsActive():
		return KindEmail
	case site.MustApproveUsers && !invite.SatisfiesApproval(now):
		return KindApproval
	default:
		return KindLogin
	}
}
