package application

// featureNames is the column order the scoring model was trained on.
// loan_status is deliberately absent.
var featureNames = [...]string{
	"person_age",
	"person_income",
	"person_home_ownership",
	"person_emp_length",
	"loan_intent",
	"loan_grade",
	"loan_amnt",
	"loan_int_rate",
	"loan_percent_income",
	"cb_person_default_on_file",
	"cb_person_cred_hist_length",
	"loan_term",
	"credit_score",
	"existing_loans",
	"debt_to_income_ratio",
}

// FeatureCount is the width of the scoring vector.
const FeatureCount = len(featureNames)

// FeatureNames returns the scoring column order.
func FeatureNames() []string {
	out := make([]string, FeatureCount)
	copy(out, featureNames[:])
	return out
}

// Features returns the scoring vector in FeatureNames order.
func (e EncodedApplication) Features() []float64 {
	return []float64{
		float64(e.PersonAge),
		float64(e.PersonIncome),
		float64(e.HomeOwnership),
		float64(e.PersonEmpLength),
		float64(e.LoanIntent),
		float64(e.LoanGrade),
		float64(e.LoanAmount),
		e.LoanIntRate,
		e.LoanPercentIncome,
		float64(e.DefaultOnFile),
		float64(e.CreditHistoryLength),
		float64(e.LoanTermMonths),
		float64(e.CreditScore),
		float64(e.ExistingLoans),
		e.DebtToIncomeRatio,
	}
}
