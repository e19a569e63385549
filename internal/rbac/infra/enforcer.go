package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// NewEnforcer builds an in-memory enforcer from a model definition and a
// fixed set of policy rows.
func NewEnforcer(modelText string, rows [][]string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		if _, err := e.AddPolicies(rows); err != nil {
			return nil, err
		}
	}

	return e, nil
}
