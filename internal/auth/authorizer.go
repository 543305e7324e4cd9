package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/spec-kit/erp-service/internal/domain"
)

// Mode controls whether authorization decisions are enforced.
type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

// Objects guarded by the authorizer, one per ERP module.
const (
	ObjectHR          = "hr"
	ObjectLeave       = "leave"
	ObjectSales       = "sales"
	ObjectInventory   = "inventory"
	ObjectWarehouse   = "warehouse"
	ObjectProcurement = "procurement"
	ObjectSurveys     = "surveys"
	ObjectReports     = "reports"
	ObjectUsers       = "users"
)

// Actions checked against objects.
const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionApprove = "approve"
	ActionRespond = "respond"
	ActionManage  = "manage"
)

const defaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var defaultPolicies = [][]string{
	{"role:admin", "*", "*"},

	{"role:employee", ObjectLeave, ActionRead},
	{"role:employee", ObjectLeave, ActionWrite},
	{"role:employee", ObjectSurveys, ActionRead},
	{"role:employee", ObjectSurveys, ActionRespond},

	{"role:hr", ObjectHR, "*"},
	{"role:hr", ObjectLeave, "*"},
	{"role:hr", ObjectSurveys, "*"},
	{"role:hr", ObjectReports, ActionRead},

	{"role:manager", ObjectHR, ActionRead},
	{"role:manager", ObjectLeave, ActionApprove},
	{"role:manager", ObjectSales, ActionRead},
	{"role:manager", ObjectInventory, ActionRead},
	{"role:manager", ObjectWarehouse, ActionRead},
	{"role:manager", ObjectProcurement, ActionRead},
	{"role:manager", ObjectProcurement, ActionApprove},
	{"role:manager", ObjectReports, ActionRead},

	{"role:sales", ObjectSales, "*"},
	{"role:sales", ObjectInventory, ActionRead},
	{"role:sales", ObjectReports, ActionRead},

	{"role:warehouse", ObjectWarehouse, "*"},
	{"role:warehouse", ObjectInventory, "*"},
	{"role:warehouse", ObjectProcurement, ActionRead},

	{"role:procurement", ObjectProcurement, ActionRead},
	{"role:procurement", ObjectProcurement, ActionWrite},
	{"role:procurement", ObjectInventory, ActionRead},
	{"role:procurement", ObjectWarehouse, ActionRead},
}

// Every role also carries the employee permissions.
var defaultGroupings = [][]string{
	{"role:hr", "role:employee"},
	{"role:manager", "role:employee"},
	{"role:sales", "role:employee"},
	{"role:warehouse", "role:employee"},
	{"role:procurement", "role:employee"},
}

// Authorizer answers role/object/action questions with casbin.
type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

// ParseMode validates a mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeEnforce:
		return ModeEnforce, nil
	case ModeShadow:
		return ModeShadow, nil
	case ModeDisabled:
		return ModeDisabled, nil
	}
	return "", fmt.Errorf("authz: invalid mode %q", raw)
}

// NewAuthorizer loads the model and policy from files when both paths are set,
// otherwise it uses the built-in ERP policy.
func NewAuthorizer(modelPath, policyPath string, mode Mode) (*Authorizer, error) {
	if modelPath != "" && policyPath != "" {
		enforcer, err := casbin.NewEnforcer(modelPath, fileadapter.NewAdapter(policyPath))
		if err != nil {
			return nil, fmt.Errorf("authz: load files: %w", err)
		}
		return &Authorizer{enforcer: enforcer, mode: mode}, nil
	}

	m, err := model.NewModelFromString(defaultModel)
	if err != nil {
		return nil, fmt.Errorf("authz: parse model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: build enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("authz: add policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, fmt.Errorf("authz: add groupings: %w", err)
	}
	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

// SubjectForRole maps a role to its casbin subject.
func SubjectForRole(role domain.Role) string {
	slug := strings.ToLower(strings.TrimSpace(string(role)))
	if slug == "" {
		slug = "anonymous"
	}
	return "role:" + slug
}

// Authorize reports whether role may perform action on object. enforced is false
// when the decision is advisory (shadow or disabled mode).
func (a *Authorizer) Authorize(role domain.Role, object, action string) (allowed bool, enforced bool, err error) {
	if a == nil {
		return false, true, errors.New("authz: authorizer not configured")
	}
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow:
		ok, err := a.enforcer.Enforce(SubjectForRole(role), object, action)
		return ok, false, err
	case ModeEnforce:
		ok, err := a.enforcer.Enforce(SubjectForRole(role), object, action)
		return ok, true, err
	default:
		return false, true, errors.New("authz: unknown mode")
	}
}

// Can is Authorize collapsed to a single enforced decision.
func (a *Authorizer) Can(role domain.Role, object, action string) bool {
	allowed, enforced, err := a.Authorize(role, object, action)
	if err != nil {
		return false
	}
	return allowed || !enforced
}
