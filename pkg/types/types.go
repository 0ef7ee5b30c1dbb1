package types

// TenantId is the control-plane identifier of a tenant ("T" followed by
// six alphanumerics). The physical database name is derived from it.
type TenantId string

func (t TenantId) String() string {
	return string(t)
}

func (t TenantId) IsNil() bool {
	return t == ""
}

// Tenant status values
const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
)

// Tenant membership defaults
const (
	MemberRoleMember   = "member"
	MemberRoleAdmin    = "admin"
	MemberStatusActive = "active"
)
