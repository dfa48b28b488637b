package models

type Permission struct {
	Type  int `json:"type"`
	Value int `json:"value"`
}

type Role struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	NameAr      string       `json:"nameAr,omitempty"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission checks the role for a specific type/value pair.
func (r Role) HasPermission(permType, value int) bool {
	for _, p := range r.Permissions {
		if p.Type == permType && p.Value == value {
			return true
		}
	}
	return false
}
