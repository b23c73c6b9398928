package domain

// UserRole defines the roles recognised by the posting allow-list.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleAccountant UserRole = "ACCOUNTANT"
	RoleMember     UserRole = "MEMBER"
	RoleViewer     UserRole = "VIEWER" // Read-only; never allowed to post
)

// PostingContext carries the caller identity and tenant scoping for a single
// validation call. It is read-only; the engine holds no state across calls.
type PostingContext struct {
	TenantID     string   `json:"tenantID"`
	CompanyID    string   `json:"companyID"`
	UserID       string   `json:"userID"`
	UserRole     UserRole `json:"userRole"`
	BaseCurrency string   `json:"baseCurrency"`
}
