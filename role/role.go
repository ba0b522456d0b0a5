package role

import "sort"

const (
	Admin        = "ADMIN"
	Doctor       = "DOCTOR"
	Nurse        = "NURSE"
	Receptionist = "RECEPTIONIST"
	Billing      = "BILLING"
)

type Privilege struct {
	Resource string   `json:"resource" bson:"resource"`
	Actions  []string `json:"actions" bson:"actions"`
}

type Role struct {
	RoleName   string      `json:"roleName" bson:"roleName"`
	RoleCode   string      `json:"roleCode" bson:"roleCode"`
	Privileges []Privilege `json:"privileges" bson:"privileges"`
}

var all = []string{"create", "view", "update", "delete"}

var catalog = map[string]Role{
	Admin: {
		RoleName: "Administrator",
		RoleCode: Admin,
		Privileges: []Privilege{
			{Resource: "*", Actions: all},
		},
	},
	Doctor: {
		RoleName: "Doctor",
		RoleCode: Doctor,
		Privileges: []Privilege{
			{Resource: "patient", Actions: []string{"view"}},
			{Resource: "appointment", Actions: []string{"view", "update"}},
			{Resource: "healthRecord", Actions: all},
			{Resource: "report", Actions: []string{"view"}},
			{Resource: "staff", Actions: []string{"view"}},
		},
	},
	Nurse: {
		RoleName: "Nurse",
		RoleCode: Nurse,
		Privileges: []Privilege{
			{Resource: "patient", Actions: []string{"view"}},
			{Resource: "appointment", Actions: []string{"view", "update"}},
			{Resource: "healthRecord", Actions: []string{"view", "update"}},
			{Resource: "staff", Actions: []string{"view"}},
		},
	},
	Receptionist: {
		RoleName: "Receptionist",
		RoleCode: Receptionist,
		Privileges: []Privilege{
			{Resource: "patient", Actions: all},
			{Resource: "appointment", Actions: all},
			{Resource: "insurance", Actions: []string{"create", "view"}},
			{Resource: "staff", Actions: []string{"view"}},
		},
	},
	Billing: {
		RoleName: "Billing Officer",
		RoleCode: Billing,
		Privileges: []Privilege{
			{Resource: "patient", Actions: []string{"view"}},
			{Resource: "appointment", Actions: []string{"view"}},
			{Resource: "billing", Actions: all},
			{Resource: "insurance", Actions: all},
			{Resource: "report", Actions: all},
			{Resource: "staff", Actions: []string{"view"}},
		},
	},
}

func Get(code string) (Role, bool) {
	r, ok := catalog[code]
	return r, ok
}

// All lists the catalog ordered by role code.
func All() []Role {
	roles := make([]Role, 0, len(catalog))
	for _, r := range catalog {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].RoleCode < roles[j].RoleCode })
	return roles
}

func Valid(code string) bool {
	_, ok := catalog[code]
	return ok
}

/*
* Look up the role in the catalog
* A "*" resource grants every resource
 */
func Allows(code, resource, action string) bool {
	r, ok := catalog[code]
	if !ok {
		return false
	}
	for _, p := range r.Privileges {
		if p.Resource != "*" && p.Resource != resource {
			continue
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}
