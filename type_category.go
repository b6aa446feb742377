package envelope

import "strings"

// Category is an envelope money is assigned into. Categories are archived
// rather than deleted once transactions reference them, so history keeps
// resolving.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Group    string `json:"group,omitempty"`
	Archived bool   `json:"archived,omitempty"`
}

// Validate reports whether the category is well formed.
func (c *Category) Validate() error {
	if c.ID == "" {
		return Validationf("category has no id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return Validationf("category %s has no name", c.ID)
	}
	return nil
}
