package roles

// Role represents a user's permission level in the asset register.
type Role string

const (
	Viewer  Role = "viewer"
	Manager Role = "manager"
	Admin   Role = "admin"
)

type HierarchyLevel int

const (
	ViewerLevel  HierarchyLevel = 1
	ManagerLevel HierarchyLevel = 2
	AdminLevel   HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Viewer:
		return ViewerLevel
	case Manager:
		return ManagerLevel
	case Admin:
		return AdminLevel
	default:
		return ViewerLevel
	}
}

// HasPermission checks whether the role satisfies the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Viewer, Manager, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
