package domain

// Role роль пользователя, приходит из слоя идентификации
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Actor authenticated caller. Trusted as supplied by the identity layer.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true if the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Doctor doctor profile from the user directory
type Doctor struct {
	ID       int64
	UserID   int64
	FullName string
	IsActive bool
}

// Patient patient profile from the user directory
type Patient struct {
	ID       int64
	UserID   int64
	FullName string
}

// CanManageDoctor returns true if the actor may act on the doctor's calendar
func (a Actor) CanManageDoctor(d *Doctor) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleDoctor && d != nil && d.UserID == a.UserID
}

// IsPatient returns true if the actor is the given patient
func (a Actor) IsPatient(p *Patient) bool {
	return a.Role == RolePatient && p != nil && p.UserID == a.UserID
}
