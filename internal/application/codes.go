package application

// Mapping tables. Each lookup is a closed switch: an unrecognized value
// reports ok=false and never falls through to a default code.

// Code returns the encoded value of the home-ownership status.
func (h HomeOwnership) Code() (int, bool) {
	switch h {
	case HomeOwnershipRent:
		return 1, true
	case HomeOwnershipMortgage:
		return 2, true
	case HomeOwnershipOwn:
		return 3, true
	case HomeOwnershipOther:
		return 4, true
	}
	return 0, false
}

// Code returns the encoded value of the loan intent.
func (i LoanIntent) Code() (int, bool) {
	switch i {
	case LoanIntentEducation:
		return 1, true
	case LoanIntentMedical:
		return 2, true
	case LoanIntentVenture:
		return 3, true
	case LoanIntentPersonal:
		return 4, true
	case LoanIntentDebtConsolidation:
		return 5, true
	case LoanIntentHomeImprovement:
		return 6, true
	}
	return 0, false
}

// Code returns the ordinal of the grade, 1 for A through 7 for G.
func (g LoanGrade) Code() (int, bool) {
	switch g {
	case LoanGradeA:
		return 1, true
	case LoanGradeB:
		return 2, true
	case LoanGradeC:
		return 3, true
	case LoanGradeD:
		return 4, true
	case LoanGradeE:
		return 5, true
	case LoanGradeF:
		return 6, true
	case LoanGradeG:
		return 7, true
	}
	return 0, false
}

// Code returns 1 when a default is on file and 0 otherwise.
func (d DefaultFlag) Code() (int, bool) {
	switch d {
	case DefaultFlagNo:
		return 0, true
	case DefaultFlagYes:
		return 1, true
	}
	return 0, false
}

// Months returns the term length in months.
func (t LoanTerm) Months() (int, bool) {
	switch t {
	case LoanTerm36Months:
		return TermMonthsShort, true
	case LoanTerm60Months:
		return TermMonthsLong, true
	}
	return 0, false
}

// IsValid reports whether the status belongs to the closed set. The empty
// status is accepted because the field is optional.
func (s LoanStatus) IsValid() bool {
	switch s {
	case "", LoanStatusFullyPaid, LoanStatusChargedOff, LoanStatusCurrent:
		return true
	}
	return false
}

// Enumerations in form display order, used by the request schema.
var (
	HomeOwnershipValues = []HomeOwnership{HomeOwnershipRent, HomeOwnershipOwn, HomeOwnershipMortgage, HomeOwnershipOther}
	LoanIntentValues    = []LoanIntent{
		LoanIntentEducation, LoanIntentMedical, LoanIntentVenture,
		LoanIntentPersonal, LoanIntentDebtConsolidation, LoanIntentHomeImprovement,
	}
	LoanGradeValues   = []LoanGrade{LoanGradeA, LoanGradeB, LoanGradeC, LoanGradeD, LoanGradeE, LoanGradeF, LoanGradeG}
	DefaultFlagValues = []DefaultFlag{DefaultFlagYes, DefaultFlagNo}
	LoanTermValues    = []LoanTerm{LoanTerm36Months, LoanTerm60Months}
	LoanStatusValues  = []LoanStatus{LoanStatusFullyPaid, LoanStatusChargedOff, LoanStatusCurrent}
)
