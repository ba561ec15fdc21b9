package types

import "strings"

// Domain is a fixed top-level topic folder in the entries repository.
// Every entry is stored under exactly one domain folder.
type Domain string

const (
	DomainDaily   Domain = "daily"
	DomainSkills  Domain = "skills"
	DomainGoals   Domain = "goals"
	DomainHealth  Domain = "health"
	DomainLibrary Domain = "library"
)

// DefaultDomain is used when an entry carries no domain or an unknown one.
const DefaultDomain = DomainDaily

// AllDomains returns all valid domains in storage order.
func AllDomains() []Domain {
	return []Domain{
		DomainDaily,
		DomainSkills,
		DomainGoals,
		DomainHealth,
		DomainLibrary,
	}
}

// IsValid checks if the domain is a member of the fixed domain set
func (d Domain) IsValid() bool {
	switch d {
	case DomainDaily, DomainSkills, DomainGoals, DomainHealth, DomainLibrary:
		return true
	}
	return false
}

// String returns the string representation of Domain
func (d Domain) String() string {
	return string(d)
}

// NormalizeDomain maps arbitrary input to a valid domain, falling back to
// DefaultDomain on empty or unknown values.
func NormalizeDomain(s string) Domain {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return DefaultDomain
	}
	return d
}
