package authz

import (
	"fmt"

	"github.com/casbin/casbin"

	"github.com/avstrong/holidaze/internal/booking"
)

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

// policy mirrors what the UI offers each role. Favorites are device-local, so
// anonymous visitors may keep them too.
var policy = [][3]string{
	{booking.RoleAnonymous, booking.ObjectVenue, booking.ActionRead},
	{booking.RoleAnonymous, booking.ObjectFavorite, booking.ActionRead},
	{booking.RoleAnonymous, booking.ObjectFavorite, booking.ActionWrite},
	{booking.RoleCustomer, booking.ObjectBooking, booking.ActionRead},
	{booking.RoleCustomer, booking.ObjectBooking, booking.ActionWrite},
	{booking.RoleCustomer, booking.ObjectProfile, booking.ActionRead},
	{booking.RoleCustomer, booking.ObjectProfile, booking.ActionWrite},
	{booking.RoleManager, booking.ObjectVenue, booking.ActionWrite},
}

var inheritance = [][2]string{
	{booking.RoleCustomer, booking.RoleAnonymous},
	{booking.RoleManager, booking.RoleCustomer},
}

// Enforcer answers whether a role may perform an action in the UI. The
// remote API enforces its own rules independently.
type Enforcer struct {
	e *casbin.Enforcer
}

func New() (*Enforcer, error) {
	e, err := casbin.NewEnforcerSafe(casbin.NewModel(modelText), false)
	if err != nil {
		return nil, fmt.Errorf("init casbin enforcer: %w", err)
	}

	for _, p := range policy {
		e.AddPolicy(p[0], p[1], p[2])
	}

	for _, g := range inheritance {
		e.AddGroupingPolicy(g[0], g[1])
	}

	return &Enforcer{e: e}, nil
}

func (e *Enforcer) Allowed(role, object, action string) (bool, error) {
	ok, err := e.e.EnforceSafe(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforce %s %s %s: %w", role, object, action, err)
	}

	return ok, nil
}
