// Package permissions holds the static role → section access matrix that the
// frontend consults before showing or enabling a section.
//
// The matrix is configuration, not data: it is resolved entirely at compile
// time and lookups cannot fail. Roles the matrix does not know are treated as
// the most restrictive role.
package permissions

// Role is the cargo assigned to a clinic user.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDentist      Role = "dentista"
	RoleReceptionist Role = "recepcionista"
	RoleFinance      Role = "financeiro"
)

// Section is one area of the application that access is granted to.
type Section string

const (
	SectionPatients Section = "pacientes"
	SectionSchedule Section = "agenda"
	SectionBudgets  Section = "orcamentos"
	SectionMessages Section = "mensagens"
	SectionReports  Section = "relatorios"
	SectionSettings Section = "configuracoes"
)

// Sections lists every section in display order.
var Sections = []Section{
	SectionPatients,
	SectionSchedule,
	SectionBudgets,
	SectionMessages,
	SectionReports,
	SectionSettings,
}

type sectionSet map[Section]bool

type grants struct {
	view   sectionSet
	edit   sectionSet
	delete sectionSet
}

func allSections() sectionSet {
	s := make(sectionSet, len(Sections))
	for _, section := range Sections {
		s[section] = true
	}

	return s
}

// matrix is the access table per role.
//
// RoleDentist does not appear here: it is resolved to RoleAdmin before
// lookup, replacing the scattered "admin or dentista always passes" checks
// of earlier versions with a single equivalence.
var matrix = map[Role]grants{
	RoleAdmin: {
		view:   allSections(),
		edit:   allSections(),
		delete: allSections(),
	},
	RoleReceptionist: {
		view: sectionSet{
			SectionPatients: true,
			SectionSchedule: true,
			SectionBudgets:  true,
			SectionMessages: true,
		},
		edit: sectionSet{
			SectionPatients: true,
			SectionSchedule: true,
			SectionMessages: true,
		},
		delete: sectionSet{},
	},
	RoleFinance: {
		view: sectionSet{
			SectionBudgets: true,
			SectionReports: true,
		},
		edit: sectionSet{
			SectionBudgets: true,
		},
		delete: sectionSet{},
	},
}

// resolve maps a role to the row of the matrix to consult.
func resolve(role Role) Role {
	if role == RoleDentist {
		return RoleAdmin
	}

	if _, ok := matrix[role]; !ok {
		return RoleReceptionist
	}

	return role
}

// CanView reports whether the role may see the section.
func CanView(role Role, section Section) bool {
	return matrix[resolve(role)].view[section]
}

// CanEdit reports whether the role may change resources in the section.
func CanEdit(role Role, section Section) bool {
	return matrix[resolve(role)].edit[section]
}

// CanDelete reports whether the role may delete resources in the section.
func CanDelete(role Role, section Section) bool {
	return matrix[resolve(role)].delete[section]
}
