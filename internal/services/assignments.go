package services

// AssignmentType is one gradable unit of the application: the timed coding
// test or one of the three lab assignments. The catalog is static.
type AssignmentType struct {
	UName     string
	MaxScore  int
	PassScore int
}

var (
	CodingTest = AssignmentType{UName: "coding_test", MaxScore: 100, PassScore: 75}
	SLU01      = AssignmentType{UName: "slu01", MaxScore: 100, PassScore: 75}
	SLU02      = AssignmentType{UName: "slu02", MaxScore: 100, PassScore: 75}
	SLU03      = AssignmentType{UName: "slu03", MaxScore: 100, PassScore: 75}
)

var AssignmentTypes = []AssignmentType{CodingTest, SLU01, SLU02, SLU03}

func AssignmentTypeByUName(uname string) (AssignmentType, bool) {
	for _, at := range AssignmentTypes {
		if at.UName == uname {
			return at, true
		}
	}
	return AssignmentType{}, false
}
