package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

const defaultPhoneRegion = "NL"

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

// ContactNormalizer cleans contact person records before display: phones in
// E.164, emails lower-cased with IDNA-checked domains, LinkedIn URLs stripped
// of tracking parameters. Fields that fail validation are cleared rather than
// guessed at; the raw record stays on the backend.
type ContactNormalizer struct {
	region string
}

// NewContactNormalizer builds a normalizer with the given default phone
// region, falling back to NL.
func NewContactNormalizer(region string) *ContactNormalizer {
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactNormalizer{region: region}
}

// Normalize returns a cleaned copy of the contact list. The input is not
// modified.
func (n *ContactNormalizer) Normalize(persons []entity.ContactPerson) []entity.ContactPerson {
	if len(persons) == 0 {
		return nil
	}
	out := make([]entity.ContactPerson, 0, len(persons))
	for _, p := range persons {
		p.Name = strings.TrimSpace(p.Name)
		if p.Phone != nil {
			if formatted := normalizePhone(*p.Phone, n.region); formatted != "" {
				p.Phone = &formatted
			}
		}
		if p.Email != nil {
			if email := normalizeEmail(*p.Email); email != "" {
				p.Email = &email
			} else {
				p.Email = nil
			}
		}
		if p.LinkedInURL != nil {
			if link := canonicalLinkedIn(*p.LinkedInURL); link != "" {
				p.LinkedInURL = &link
			} else {
				p.LinkedInURL = nil
			}
		}
		out = append(out, p)
	}
	return out
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return ""
	}
	parts := strings.SplitN(email, "@", 2)
	if !isDomainValid(parts[1]) {
		return ""
	}
	if ascii, err := idnaProfile.ToASCII(parts[1]); err != nil || ascii == "" {
		return ""
	}
	return email
}

func canonicalLinkedIn(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return ""
	}
	u.Scheme = "https"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
