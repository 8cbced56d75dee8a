package entities

import (
	"fmt"
	"strings"
	"time"
)

// Language is the correspondence language of a supplier
type Language string

const (
	LanguageDutch   Language = "NL"
	LanguageFrench  Language = "FR"
	LanguageGerman  Language = "DE"
	LanguageEnglish Language = "EN"
)

// Supplier represents a supplier master record
type Supplier struct {
	ID             string `validate:"required"`
	Code           string `validate:"required"`
	Name           string `validate:"required"`
	Telephone      string
	Email          string   `validate:"omitempty,email"`
	Language       Language `validate:"oneof=NL FR DE EN"`
	Published      bool
	ActiveForLocal bool
}

// NewSupplier creates a validated Supplier
func NewSupplier(id, code, name, telephone, email string, language Language, published, activeForLocal bool) (*Supplier, error) {
	supplier := &Supplier{
		ID:             strings.TrimSpace(id),
		Code:           strings.ToUpper(strings.TrimSpace(code)),
		Name:           strings.TrimSpace(name),
		Telephone:      strings.TrimSpace(telephone),
		Email:          strings.TrimSpace(email),
		Language:       Language(strings.ToUpper(strings.TrimSpace(string(language)))),
		Published:      published,
		ActiveForLocal: activeForLocal,
	}
	if err := Validate(supplier); err != nil {
		return nil, fmt.Errorf("supplier %q: %w", id, err)
	}
	return supplier, nil
}

// Region groups prisons by federal region
type Region string

const (
	RegionFlanders Region = "flanders"
	RegionWallonia Region = "wallonia"
	RegionBrussels Region = "brussels"
)

// Prison represents one tenant of the organisation
type Prison struct {
	ID       string `validate:"required"`
	Code     string `validate:"required"`
	Name     string `validate:"required"`
	City     string
	Region   Region `validate:"oneof=flanders wallonia brussels"`
	Capacity int    `validate:"gte=0"`
	Phone    string
	Blocked  bool
}

// NewPrison creates a validated Prison
func NewPrison(id, code, name, city string, region Region, capacity int, phone string, blocked bool) (*Prison, error) {
	prison := &Prison{
		ID:       strings.TrimSpace(id),
		Code:     strings.ToUpper(strings.TrimSpace(code)),
		Name:     strings.TrimSpace(name),
		City:     strings.TrimSpace(city),
		Region:   Region(strings.ToLower(strings.TrimSpace(string(region)))),
		Capacity: capacity,
		Phone:    strings.TrimSpace(phone),
		Blocked:  blocked,
	}
	if err := Validate(prison); err != nil {
		return nil, fmt.Errorf("prison %q: %w", id, err)
	}
	return prison, nil
}

// Warehouse represents a storage location belonging to a prison
type Warehouse struct {
	ID       string `validate:"required"`
	Code     string `validate:"required"`
	Name     string `validate:"required"`
	PrisonID string `validate:"required"`
}

// NewWarehouse creates a validated Warehouse
func NewWarehouse(id, code, name, prisonID string) (*Warehouse, error) {
	warehouse := &Warehouse{
		ID:       strings.TrimSpace(id),
		Code:     strings.ToUpper(strings.TrimSpace(code)),
		Name:     strings.TrimSpace(name),
		PrisonID: strings.TrimSpace(prisonID),
	}
	if err := Validate(warehouse); err != nil {
		return nil, fmt.Errorf("warehouse %q: %w", id, err)
	}
	return warehouse, nil
}

// AuthType is the way a user signs in
type AuthType string

const (
	AuthO365  AuthType = "o365"
	AuthLocal AuthType = "local"
)

// SystemRole is the role a user holds within one system
type SystemRole string

const (
	RoleCentralAdmin SystemRole = "central_admin"
	RoleLocalAdmin   SystemRole = "local_admin"
	RoleUser         SystemRole = "user"
	RoleViewer       SystemRole = "viewer"
)

// UserRole binds a role to a system (central or local)
type UserRole struct {
	SystemID string     `validate:"oneof=central local"`
	Role     SystemRole `validate:"oneof=central_admin local_admin user viewer"`
}

// User represents an account of the administrative dashboard
type User struct {
	ID              string   `validate:"required"`
	Email           string   `validate:"required,email"`
	Name            string   `validate:"required"`
	AuthType        AuthType `validate:"oneof=o365 local"`
	O365Group       string   `validate:"required_if=AuthType o365"`
	Blocked         bool
	Roles           []UserRole `validate:"dive"`
	AssignedPrisons []string
	MenuRights      []string
	CreatedAt       time.Time
	LastLogin       *time.Time
}

// NewUser creates a validated User
func NewUser(user User) (*User, error) {
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)
	if err := Validate(&user); err != nil {
		return nil, fmt.Errorf("user %q: %w", user.ID, err)
	}
	return &user, nil
}

// RoleIn returns the role a user holds in the given system, if any
func (u *User) RoleIn(systemID string) (SystemRole, bool) {
	for _, r := range u.Roles {
		if r.SystemID == systemID {
			return r.Role, true
		}
	}
	return "", false
}

// AssignedTo reports whether the user is assigned to the prison
func (u *User) AssignedTo(prisonID string) bool {
	for _, id := range u.AssignedPrisons {
		if id == prisonID {
			return true
		}
	}
	return false
}

// OperatingMode selects whether the dashboard runs for the central
// organisation or for a single prison
type OperatingMode int

const (
	ModeCentral OperatingMode = iota
	ModeLocal
)

// String method for OperatingMode enum
func (m OperatingMode) String() string {
	switch m {
	case ModeCentral:
		return "central"
	case ModeLocal:
		return "local"
	default:
		return "unknown"
	}
}

// ParseOperatingMode converts a mode label into an OperatingMode
func ParseOperatingMode(s string) (OperatingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "central":
		return ModeCentral, nil
	case "local":
		return ModeLocal, nil
	default:
		return ModeCentral, fmt.Errorf("unknown operating mode: %q", s)
	}
}
