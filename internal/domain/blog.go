package domain

import "time"

// Blog is one tenant site. All dedup and slug uniqueness is scoped to its ID.
type Blog struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Niche     string    `json:"niche"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlogPatch lists the editable fields of a tenant. The slug is fixed once
// created. Nil fields are left untouched.
type BlogPatch struct {
	Name     *string
	Niche    *string
	IsActive *bool
}

// Empty reports whether the patch changes nothing.
func (p BlogPatch) Empty() bool {
	return p == BlogPatch{}
}
