package models

import (
	"strings"

	"crm-sync/core/remote"
)

// Kind is a synchronized object category.
type Kind string

const (
	KindContact Kind = "contact"
	KindCompany Kind = "company"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindContact, KindCompany}

// ParseKind validates a kind name.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindContact:
		return KindContact, nil
	case KindCompany:
		return KindCompany, nil
	default:
		return "", &UnsupportedKindError{Kind: raw}
	}
}

// RecordType is the remote record type the kind maps to.
func (k Kind) RecordType() string {
	if k == KindCompany {
		return remote.TypeCustomer
	}
	return remote.TypeContact
}

// NaturalKey is the remote field used to find an existing record before creating one.
func (k Kind) NaturalKey() string {
	if k == KindCompany {
		return "companyName"
	}
	return "email"
}

// AppliesTo reports whether a custom field definition is flagged for this kind.
func (k Kind) AppliesTo(def remote.CustomFieldDef) bool {
	if k == KindCompany {
		return def.AppliesToCustomer
	}
	return def.AppliesToContact
}
