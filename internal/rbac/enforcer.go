package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Enforcer answers whether a role may perform an action on a resource.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// The permission model is fixed for a single organization, so model and
// policy ship embedded instead of living in the database.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var policies = [][]string{
	{"employee", "leave", "read"},
	{"employee", "leave", "create"},
	{"employee", "leave_type", "read"},
	{"employee", "leave_balance", "read"},

	{"admin", "leave", "read_all"},
	{"admin", "leave", "decide"},
	{"admin", "leave_type", "read"},
	{"admin", "leave_type", "write"},
	{"admin", "leave_balance", "read_all"},
	{"admin", "leave_balance", "write"},
}

type enforcer struct {
	e *casbin.Enforcer
}

func NewEnforcer() (Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	// Admins inherit everything employees may do.
	if _, err := e.AddGroupingPolicy("admin", "employee"); err != nil {
		return nil, err
	}

	return &enforcer{e: e}, nil
}

func (w *enforcer) Enforce(role, resource, action string) (bool, error) {
	return w.e.Enforce(role, resource, action)
}
