package model

import "errors"

// RoleSuperAdmin sees projects of every firm.
const RoleSuperAdmin = "super_admin"

var ErrMissingFirm = errors.New("firm id is missing from session")

// SessionContext is the caller identity forwarded by the external session gateway.
type SessionContext struct {
	FirmID string `json:"firm_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s SessionContext) SeesAllFirms() bool {
	return s.Role == RoleSuperAdmin
}

// AllFirmsScope is the scope key of sessions that see every firm.
const AllFirmsScope = "*"

func FirmScope(firmID string) string { return "firm:" + firmID }

// ScopeKey identifies the set of projects visible to the session.
func (s SessionContext) ScopeKey() string {
	if s.SeesAllFirms() {
		return AllFirmsScope
	}
	return FirmScope(s.FirmID)
}

func (s SessionContext) Validate() error {
	if s.FirmID == "" && !s.SeesAllFirms() {
		return ErrMissingFirm
	}
	return nil
}
