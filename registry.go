package envelope

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// newID mints a short prefixed identifier, such as "txn-9f8a01c2".
func newID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// foldName normalizes a name for lookups: case and surrounding space do not
// distinguish two entities.
func foldName(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Accounts is a collection of accounts, indexed by id and by folded name.
type Accounts struct {
	accounts []*Account
	byID     map[string]*Account
	byName   map[string]*Account
}

func NewAccounts() *Accounts {
	return &Accounts{
		byID:   make(map[string]*Account),
		byName: make(map[string]*Account),
	}
}

// Has returns true if an account with that id exists.
func (s *Accounts) Has(id string) bool { _, ok := s.byID[id]; return ok }

// Get returns the account with the given id, or nil.
func (s *Accounts) Get(id string) *Account { return s.byID[id] }

// Find resolves a reference that may be an account id or name.
func (s *Accounts) Find(ref string) *Account {
	if a, ok := s.byID[ref]; ok {
		return a
	}
	return s.byName[foldName(ref)]
}

// Len returns the number of accounts.
func (s *Accounts) Len() int { return len(s.accounts) }

// All returns the accounts in insertion order. Callers must not mutate the
// returned slice.
func (s *Accounts) All() []*Account { return s.accounts }

// Add inserts a new account. Ids and names must be unique.
func (s *Accounts) Add(a *Account) error {
	if _, ok := s.byID[a.ID]; ok {
		return Conflictf("duplicate account id %q", a.ID)
	}
	if _, ok := s.byName[foldName(a.Name)]; ok {
		return Conflictf("an account named %q already exists", a.Name)
	}
	s.accounts = append(s.accounts, a)
	s.byID[a.ID] = a
	s.byName[foldName(a.Name)] = a
	return nil
}

// Rename changes an account's name, keeping the name index coherent.
func (s *Accounts) Rename(id, name string) error {
	a, ok := s.byID[id]
	if !ok {
		return NotFoundf("unknown account %q", id)
	}
	if other, ok := s.byName[foldName(name)]; ok && other != a {
		return Conflictf("an account named %q already exists", name)
	}
	delete(s.byName, foldName(a.Name))
	a.Name = name
	s.byName[foldName(name)] = a
	return nil
}

// Categories is a collection of budget categories, indexed by id and by
// folded name.
type Categories struct {
	categories []*Category
	byID       map[string]*Category
	byName     map[string]*Category
}

func NewCategories() *Categories {
	return &Categories{
		byID:   make(map[string]*Category),
		byName: make(map[string]*Category),
	}
}

func (s *Categories) Has(id string) bool { _, ok := s.byID[id]; return ok }

func (s *Categories) Get(id string) *Category { return s.byID[id] }

// Find resolves a reference that may be a category id or name.
func (s *Categories) Find(ref string) *Category {
	if c, ok := s.byID[ref]; ok {
		return c
	}
	return s.byName[foldName(ref)]
}

func (s *Categories) Len() int { return len(s.categories) }

// All returns the categories in insertion order. Callers must not mutate
// the returned slice.
func (s *Categories) All() []*Category { return s.categories }

// Groups returns the distinct category groups in first-seen order.
func (s *Categories) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, c := range s.categories {
		if c.Group == "" || seen[c.Group] {
			continue
		}
		seen[c.Group] = true
		groups = append(groups, c.Group)
	}
	return groups
}

func (s *Categories) Add(c *Category) error {
	if _, ok := s.byID[c.ID]; ok {
		return Conflictf("duplicate category id %q", c.ID)
	}
	if _, ok := s.byName[foldName(c.Name)]; ok {
		return Conflictf("a category named %q already exists", c.Name)
	}
	s.categories = append(s.categories, c)
	s.byID[c.ID] = c
	s.byName[foldName(c.Name)] = c
	return nil
}

func (s *Categories) Rename(id, name string) error {
	c, ok := s.byID[id]
	if !ok {
		return NotFoundf("unknown category %q", id)
	}
	if other, ok := s.byName[foldName(name)]; ok && other != c {
		return Conflictf("a category named %q already exists", name)
	}
	delete(s.byName, foldName(c.Name))
	c.Name = name
	s.byName[foldName(name)] = c
	return nil
}

// Payees is a collection of payees, indexed by id and by folded name.
type Payees struct {
	payees []*Payee
	byID   map[string]*Payee
	byName map[string]*Payee
}

func NewPayees() *Payees {
	return &Payees{
		byID:   make(map[string]*Payee),
		byName: make(map[string]*Payee),
	}
}

func (s *Payees) Has(id string) bool { _, ok := s.byID[id]; return ok }

func (s *Payees) Get(id string) *Payee { return s.byID[id] }

// Find resolves a reference that may be a payee id or name.
func (s *Payees) Find(ref string) *Payee {
	if p, ok := s.byID[ref]; ok {
		return p
	}
	return s.byName[foldName(ref)]
}

func (s *Payees) Len() int { return len(s.payees) }

// All returns the payees in insertion order. Callers must not mutate the
// returned slice.
func (s *Payees) All() []*Payee { return s.payees }

func (s *Payees) Add(p *Payee) error {
	if _, ok := s.byID[p.ID]; ok {
		return Conflictf("duplicate payee id %q", p.ID)
	}
	if _, ok := s.byName[foldName(p.Name)]; ok {
		return Conflictf("a payee named %q already exists", p.Name)
	}
	s.payees = append(s.payees, p)
	s.byID[p.ID] = p
	s.byName[foldName(p.Name)] = p
	return nil
}

// FindOrCreate returns the payee with the given name, creating it first if
// needed. Import and quick-entry paths lean on this.
func (s *Payees) FindOrCreate(name string) *Payee {
	if p := s.byName[foldName(name)]; p != nil {
		return p
	}
	p := &Payee{ID: newID("pay"), Name: strings.TrimSpace(name)}
	s.payees = append(s.payees, p)
	s.byID[p.ID] = p
	s.byName[foldName(p.Name)] = p
	return p
}

func (s *Payees) Rename(id, name string) error {
	p, ok := s.byID[id]
	if !ok {
		return NotFoundf("unknown payee %q", id)
	}
	if other, ok := s.byName[foldName(name)]; ok && other != p {
		return Conflictf("a payee named %q already exists", name)
	}
	delete(s.byName, foldName(p.Name))
	p.Name = name
	s.byName[foldName(name)] = p
	return nil
}
