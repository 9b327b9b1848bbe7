// Package application models a loan application as collected from the input
// form and its encoded form as consumed by the scoring model.
package application

// HomeOwnership is the applicant's housing status as shown on the form.
type HomeOwnership string

const (
	HomeOwnershipRent     HomeOwnership = "RENT"
	HomeOwnershipMortgage HomeOwnership = "MORTGAGE"
	HomeOwnershipOwn      HomeOwnership = "OWN"
	HomeOwnershipOther    HomeOwnership = "OTHER"
)

// LoanIntent is the declared purpose of the loan.
type LoanIntent string

const (
	LoanIntentEducation         LoanIntent = "EDUCATION"
	LoanIntentMedical           LoanIntent = "MEDICAL"
	LoanIntentVenture           LoanIntent = "VENTURE"
	LoanIntentPersonal          LoanIntent = "PERSONAL"
	LoanIntentDebtConsolidation LoanIntent = "DEBTCONSOLIDATION"
	LoanIntentHomeImprovement   LoanIntent = "HOMEIMPROVEMENT"
)

// LoanGrade is the lender-assigned risk grade, A (best) through G (worst).
type LoanGrade string

const (
	LoanGradeA LoanGrade = "A"
	LoanGradeB LoanGrade = "B"
	LoanGradeC LoanGrade = "C"
	LoanGradeD LoanGrade = "D"
	LoanGradeE LoanGrade = "E"
	LoanGradeF LoanGrade = "F"
	LoanGradeG LoanGrade = "G"
)

// DefaultFlag records whether the credit bureau has a prior default on file.
type DefaultFlag string

const (
	DefaultFlagYes DefaultFlag = "Y"
	DefaultFlagNo  DefaultFlag = "N"
)

// LoanTerm is the repayment period as shown on the form.
type LoanTerm string

const (
	LoanTerm36Months LoanTerm = "36 months"
	LoanTerm60Months LoanTerm = "60 months"
)

// LoanStatus is collected by the form but is not a model input.
type LoanStatus string

const (
	LoanStatusFullyPaid  LoanStatus = "Fully Paid"
	LoanStatusChargedOff LoanStatus = "Charged Off"
	LoanStatusCurrent    LoanStatus = "Current"
)

// Encoded codes referenced by the eligibility rules.
const (
	CodeHomeOwnershipOther = 4
	CodeDefaultOnFile      = 1
	CodeLoanGradeE         = 5
	CodeLoanGradeD         = 4
	TermMonthsShort        = 36
	TermMonthsLong         = 60
)

// RawApplication is the form-collected record with human-readable values.
// LoanStatus is optional and never reaches the scorer.
type RawApplication struct {
	PersonAge           int           `json:"person_age"`
	PersonIncome        int64         `json:"person_income"`
	PersonHomeOwnership HomeOwnership `json:"person_home_ownership"`
	PersonEmpLength     int           `json:"person_emp_length"`
	LoanIntent          LoanIntent    `json:"loan_intent"`
	LoanGrade           LoanGrade     `json:"loan_grade"`
	LoanAmount          int64         `json:"loan_amnt"`
	LoanIntRate         float64       `json:"loan_int_rate"`
	LoanPercentIncome   float64       `json:"loan_percent_income"`
	DefaultOnFile       DefaultFlag   `json:"cb_person_default_on_file"`
	CreditHistoryLength int           `json:"cb_person_cred_hist_length"`
	LoanTerm            LoanTerm      `json:"loan_term"`
	CreditScore         int           `json:"credit_score"`
	ExistingLoans       int           `json:"existing_loans"`
	DebtToIncomeRatio   float64       `json:"debt_to_income_ratio"`
	LoanStatus          LoanStatus    `json:"loan_status,omitempty"`
}

// EncodedApplication carries the same fields with categoricals replaced by
// their integer codes and the term expressed in months. Values are built once
// by Encode and passed by value.
type EncodedApplication struct {
	PersonAge           int     `json:"person_age"`
	PersonIncome        int64   `json:"person_income"`
	HomeOwnership       int     `json:"person_home_ownership"`
	PersonEmpLength     int     `json:"person_emp_length"`
	LoanIntent          int     `json:"loan_intent"`
	LoanGrade           int     `json:"loan_grade"`
	LoanAmount          int64   `json:"loan_amnt"`
	LoanIntRate         float64 `json:"loan_int_rate"`
	LoanPercentIncome   float64 `json:"loan_percent_income"`
	DefaultOnFile       int     `json:"cb_person_default_on_file"`
	CreditHistoryLength int     `json:"cb_person_cred_hist_length"`
	LoanTermMonths      int     `json:"loan_term"`
	CreditScore         int     `json:"credit_score"`
	ExistingLoans       int     `json:"existing_loans"`
	DebtToIncomeRatio   float64 `json:"debt_to_income_ratio"`
}
