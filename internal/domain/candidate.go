package domain

// Department is one of the four fixed races on the ballot.
type Department string

const (
	DepartmentPresident     Department = "President"
	DepartmentVicePresident Department = "Vice President"
	DepartmentSecretary     Department = "Secretary"
	DepartmentTreasurer     Department = "Treasurer"
)

// Departments returns the ballot races in display order.
func Departments() []Department {
	return []Department{
		DepartmentPresident,
		DepartmentVicePresident,
		DepartmentSecretary,
		DepartmentTreasurer,
	}
}

// IsValid reports whether d is one of the four known departments.
func (d Department) IsValid() bool {
	switch d {
	case DepartmentPresident, DepartmentVicePresident, DepartmentSecretary, DepartmentTreasurer:
		return true
	}
	return false
}

// Candidate represents a candidate standing for one department.
type Candidate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
	Bio        string     `json:"bio"`
	ImageURL   string     `json:"imageUrl"`
	Votes      int        `json:"votes"`
}

// CandidateForm is the command object behind the admin candidate form.
// It is validated at the edge before being turned into a Candidate.
type CandidateForm struct {
	Name       string     `json:"name"`
	Department Department `json:"department"`
	Bio        string     `json:"bio"`
	ImageURL   string     `json:"imageUrl"`
}
