package rbac

import "github.com/gin-gonic/gin"

const principalKey = "principal"

// SetPrincipal stores the authenticated caller on the gin context. The
// plain user_id and role keys are kept for rate limiting and logging.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.IdentityID)
	c.Set("role", p.Role)
	if p.EmployeeID != "" {
		c.Set("employee_id", p.EmployeeID)
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
