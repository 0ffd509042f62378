package domain

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

type AccountType string

const (
	AccountStudent AccountType = "student"
	AccountAlumni  AccountType = "alumni"
	AccountFaculty AccountType = "faculty"
	AccountStaff   AccountType = "staff"
)

func ParseAccountType(raw string) (AccountType, bool) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(raw))); t {
	case AccountStudent, AccountAlumni, AccountFaculty, AccountStaff:
		return t, true
	default:
		return "", false
	}
}

// FacultyHandlePrefix marks login handles that belong to faculty accounts.
const FacultyHandlePrefix = "FACULTY"

type HandleKind int

const (
	HandleStandard HandleKind = iota
	HandleFaculty
)

// Handle is a trimmed login handle tagged with the lookup strategy it needs.
// Faculty handles match case-insensitively and only against faculty accounts;
// standard handles match exactly against any account.
type Handle struct {
	Value string
	Kind  HandleKind
}

func ParseHandle(raw string) Handle {
	value := strings.TrimSpace(raw)
	kind := HandleStandard
	if len(value) >= len(FacultyHandlePrefix) && strings.EqualFold(value[:len(FacultyHandlePrefix)], FacultyHandlePrefix) {
		kind = HandleFaculty
	}
	return Handle{Value: value, Kind: kind}
}

func (h Handle) IsFaculty() bool {
	return h.Kind == HandleFaculty
}
