package model

import (
	"database/sql/driver"
	"fmt"
)

// Role adalah peran akun. Disimpan sebagai smallint: 0 = pegawai, 1 = admin.
type Role int

const (
	RoleEmployee Role = 0
	RoleAdmin    Role = 1
)

type Capability string

const (
	CapAttend          Capability = "attend"
	CapViewOwnRecap    Capability = "view_own_recap"
	CapManageEmployees Capability = "manage_employees"
	CapViewReports     Capability = "view_reports"
	CapManageLocations Capability = "manage_locations"
)

var roleCapabilities = map[Role][]Capability{
	RoleEmployee: {CapAttend, CapViewOwnRecap},
	RoleAdmin:    {CapAttend, CapViewOwnRecap, CapManageEmployees, CapViewReports, CapManageLocations},
}

// Can melaporkan apakah role ini punya capability tertentu.
// Role yang tidak dikenal tidak punya capability apa pun.
func (r Role) Can(c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "employee", "0":
		return RoleEmployee, nil
	case "admin", "1":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("role tidak dikenal: %q", s)
}

func (r Role) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*r = Role(v)
	case int32:
		*r = Role(v)
	case []byte:
		parsed, err := ParseRole(string(v))
		if err != nil {
			return err
		}
		*r = parsed
	case string:
		parsed, err := ParseRole(v)
		if err != nil {
			return err
		}
		*r = parsed
	default:
		return fmt.Errorf("tidak bisa membaca role dari %T", src)
	}
	return nil
}
