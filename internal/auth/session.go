package auth

import (
	"context"

	"restaurant-pos/internal/models"
)

// Session is the signed-in user, passed explicitly to every handler through
// the request context.
type Session struct {
	Login       string      `json:"login"`
	Role        models.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	TenantID    *int64      `json:"tenant_id,omitempty"`
	EmployeeID  *int64      `json:"employee_id,omitempty"`
}

// CanAccessTenant reports whether the session may read or change data of tenantID.
func (s Session) CanAccessTenant(tenantID int64) bool {
	if s.Role == models.RoleSuperadmin {
		return true
	}
	return s.TenantID != nil && *s.TenantID == tenantID
}

func (s Session) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
