package api

import "time"

// Pagination is returned with every list result. NextPageToken is ""
// once the listing is exhausted; pass it back in the next request's
// page_token to continue.
type Pagination struct {
	NextPageToken string `json:"next_page_token"`
	TotalCount    int    `json:"total_count"`
}

// ListParams selects one page. Embedded in every list_* params struct.
type ListParams struct {
	PageSize  int    `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// DeleteResult is the envelope for every delete_* method.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

type Tenant struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TenantUser struct {
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTenantParams struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type GetTenantParams struct {
	TenantID string `json:"tenant_id"`
}

type UpdateTenantParams struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name,omitempty"`
	Status   string `json:"status,omitempty"`
}

type DeleteTenantParams struct {
	TenantID string `json:"tenant_id"`
}

type ListTenantsParams struct {
	ListParams
}

type TenantResult struct {
	Tenant Tenant `json:"tenant"`
}

type TenantListResult struct {
	Tenants    []Tenant   `json:"tenants"`
	Pagination Pagination `json:"pagination"`
}

type CreateUserParams struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type GetUserParams struct {
	UserID string `json:"user_id"`
}

type UpdateUserParams struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type DeleteUserParams struct {
	UserID string `json:"user_id"`
}

type ListUsersParams struct {
	ListParams
}

type UserResult struct {
	User User `json:"user"`
}

type UserListResult struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

type AddUserToTenantParams struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
}

type RemoveUserFromTenantParams struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

type ListTenantUsersParams struct {
	TenantID string `json:"tenant_id"`
	ListParams
}

type TenantUserResult struct {
	TenantUser TenantUser `json:"tenant_user"`
}

type TenantUserListResult struct {
	TenantUsers []TenantUser `json:"tenant_users"`
	Pagination  Pagination   `json:"pagination"`
}
