package infra

import (
	"fmt"

	"github.com/casbin/casbin/v2"
)

// NewEnforcer loads the institution-scoped RBAC model. No policy file is
// given; the service layer feeds policies from the database at startup.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	enforcer, err := casbin.NewEnforcer(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load rbac model %q: %w", modelPath, err)
	}
	return enforcer, nil
}
