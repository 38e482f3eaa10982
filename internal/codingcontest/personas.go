package codingcontest

import (
	"errors"

	"github.com/matzehuels/archscape/pkg/model"
)

// Personas declares the people using the platform.
type Personas struct {
	User  model.PersonRef
	Admin model.PersonRef
}

func (p *Personas) Name() string { return "personas" }

func (p *Personas) Populate(m *model.Model) error {
	var userErr, adminErr error
	p.User, userErr = m.AddPerson("Contest Participant", "", model.LocationExternal)
	p.Admin, adminErr = m.AddPerson("Administrator", "", model.LocationInternal)
	return errors.Join(userErr, adminErr)
}
