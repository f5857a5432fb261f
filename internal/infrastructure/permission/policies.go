package permission

import (
	"github.com/orris-inc/tally/internal/shared/constants"
	"github.com/orris-inc/tally/internal/shared/logger"
)

// Resources and actions guarded by the permission middleware.
const (
	ResourceDashboard    = "dashboard"
	ResourceAccount      = "account"
	ResourceMetricsCache = "metrics_cache"

	ActionRead       = "read"
	ActionManage     = "manage"
	ActionInvalidate = "invalidate"
)

// InitDefaultPolicies seeds the built-in roles. Admins inherit everything a
// user may do. Existing policies are left untouched.
func InitDefaultPolicies(e *Enforcer, log logger.Interface) error {
	policies := [][3]string{
		{constants.RoleUser, ResourceDashboard, ActionRead},
		{constants.RoleUser, ResourceAccount, ActionRead},
		{constants.RoleUser, ResourceAccount, ActionManage},
		{constants.RoleAdmin, ResourceMetricsCache, ActionInvalidate},
	}

	for _, p := range policies {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	if err := e.AddRoleInheritance(constants.RoleAdmin, constants.RoleUser); err != nil {
		return err
	}

	log.Infow("default permissions initialized", "policies", len(policies))
	return nil
}
