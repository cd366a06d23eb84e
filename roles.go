package accounts

// Built-in role ranks. Higher level means more authority; comparisons are
// strict so equals never manage equals.
var roleLevels = map[Role]int{
	RoleUser:    1,
	RoleClient:  2,
	RoleManager: 3,
	RoleAdmin:   4,
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	_, ok := roleLevels[r]
	return ok
}

// RoleLevel returns the integer rank of a role, 0 for unknown roles.
func RoleLevel(r Role) int {
	return roleLevels[r]
}

// TopAuthority returns the highest-ranked role. Privileged account creation
// is restricted to it.
func TopAuthority() Role {
	return RoleAdmin
}

// CanManage reports whether the actor's rank is strictly greater than the
// target's. Unknown roles never manage anything.
func CanManage(actor, target Role) bool {
	actorLevel, ok := roleLevels[actor]
	if !ok {
		return false
	}
	targetLevel, ok := roleLevels[target]
	if !ok {
		return false
	}
	return actorLevel > targetLevel
}

// IsAtLeast reports whether role meets the minimum required rank.
func IsAtLeast(role, minRole Role) bool {
	level, ok := roleLevels[role]
	if !ok {
		return false
	}
	minLevel, ok := roleLevels[minRole]
	if !ok {
		return false
	}
	return level >= minLevel
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// AllRoles returns the predefined roles in ascending rank order.
func AllRoles() []Role {
	return []Role{RoleUser, RoleClient, RoleManager, RoleAdmin}
}

// RoleDirectory resolves role ranks from persisted RoleEntry records,
// falling back to the built-in levels for roles storage does not know.
type RoleDirectory struct {
	levels map[Role]int
}

// NewRoleDirectory builds a directory from persisted role entries.
func NewRoleDirectory(entries []*RoleEntry) *RoleDirectory {
	levels := make(map[Role]int, len(entries))
	for _, e := range entries {
		if e == nil || e.Name == "" {
			continue
		}
		levels[e.Name] = e.Level
	}
	return &RoleDirectory{levels: levels}
}

// LevelOf returns the rank of a role, preferring storage-defined levels.
func (d *RoleDirectory) LevelOf(r Role) int {
	if d != nil {
		if level, ok := d.levels[r]; ok {
			return level
		}
	}
	return RoleLevel(r)
}

// CanManage applies the strictly-greater rank rule using directory levels.
func (d *RoleDirectory) CanManage(actor, target Role) bool {
	actorLevel := d.LevelOf(actor)
	targetLevel := d.LevelOf(target)
	if actorLevel == 0 || targetLevel == 0 {
		return false
	}
	return actorLevel > targetLevel
}

// TopAuthority returns the highest-ranked role the directory knows.
func (d *RoleDirectory) TopAuthority() Role {
	top := TopAuthority()
	if d == nil || len(d.levels) == 0 {
		return top
	}
	best := 0
	for role, level := range d.levels {
		if level > best {
			best = level
			top = role
		}
	}
	return top
}
