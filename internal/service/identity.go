package service

import (
	"strings"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

var identityPrefixes = []struct {
	prefix  string
	field   models.IdentityField
	channel models.Channel
}{
	{"email:", models.IdentityEmail, models.ChannelEmail},
	{"phone:", models.IdentityPhone, models.ChannelPhone},
	{"whatsapp:", models.IdentityPhone, models.ChannelWhatsApp},
}

// ResolveIdentity parses an x-identity descriptor. Prefixes are case-sensitive
// and the remainder is only trimmed.
func ResolveIdentity(raw string) (models.Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Identity{}, appErrors.ErrMissingIdentity
	}
	for _, p := range identityPrefixes {
		if strings.HasPrefix(raw, p.prefix) {
			return models.Identity{
				Field:   p.field,
				Value:   strings.TrimSpace(raw[len(p.prefix):]),
				Channel: p.channel,
			}, nil
		}
	}
	return models.Identity{}, appErrors.ErrInvalidIdentity
}

// identityFilter matches guardians by the resolved identity. Stored emails are
// trimmed only when trimEmail is set.
func identityFilter(id models.Identity, trimEmail bool) filter.Expr {
	if id.Field == models.IdentityEmail && trimEmail {
		return filter.TrimEq(string(id.Field), id.Value)
	}
	return filter.Eq(string(id.Field), id.Value)
}
