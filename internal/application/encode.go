package application

import (
	"fmt"
	"math"
	"strings"

	dErrors "loanassist/pkg/domain-errors"
)

// Input ranges enforced by the form.
const (
	MinAge         = 18
	MaxAge         = 100
	MinCreditScore = 300
	MaxCreditScore = 850
	MaxPercent     = 100.0
)

// Encode maps a raw application to its encoded form. It is a pure function:
// the same input always yields the same output. Any categorical value outside
// its closed set, or any numeric value outside its form range, fails the whole
// application with an invalid_input error listing every problem found.
// LoanStatus is validated but not carried into the encoded record.
func Encode(raw RawApplication) (EncodedApplication, error) {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	homeOwnership, ok := raw.PersonHomeOwnership.Code()
	if !ok {
		fail("person_home_ownership: unknown value %q", raw.PersonHomeOwnership)
	}
	intent, ok := raw.LoanIntent.Code()
	if !ok {
		fail("loan_intent: unknown value %q", raw.LoanIntent)
	}
	grade, ok := raw.LoanGrade.Code()
	if !ok {
		fail("loan_grade: unknown value %q", raw.LoanGrade)
	}
	defaultOnFile, ok := raw.DefaultOnFile.Code()
	if !ok {
		fail("cb_person_default_on_file: unknown value %q", raw.DefaultOnFile)
	}
	termMonths, ok := raw.LoanTerm.Months()
	if !ok {
		fail("loan_term: unknown value %q", raw.LoanTerm)
	}
	if !raw.LoanStatus.IsValid() {
		fail("loan_status: unknown value %q", raw.LoanStatus)
	}

	if raw.PersonAge < MinAge || raw.PersonAge > MaxAge {
		fail("person_age: must be between %d and %d", MinAge, MaxAge)
	}
	if raw.PersonIncome < 0 {
		fail("person_income: must not be negative")
	}
	if raw.PersonEmpLength < 0 {
		fail("person_emp_length: must not be negative")
	}
	if raw.LoanAmount < 0 {
		fail("loan_amnt: must not be negative")
	}
	if !inPercentRange(raw.LoanIntRate) {
		fail("loan_int_rate: must be between 0 and 100")
	}
	if !inPercentRange(raw.LoanPercentIncome) {
		fail("loan_percent_income: must be between 0 and 100")
	}
	if raw.CreditHistoryLength < 0 {
		fail("cb_person_cred_hist_length: must not be negative")
	}
	if raw.CreditScore < MinCreditScore || raw.CreditScore > MaxCreditScore {
		fail("credit_score: must be between %d and %d", MinCreditScore, MaxCreditScore)
	}
	if raw.ExistingLoans < 0 {
		fail("existing_loans: must not be negative")
	}
	if !inPercentRange(raw.DebtToIncomeRatio) {
		fail("debt_to_income_ratio: must be between 0 and 100")
	}

	if len(problems) > 0 {
		return EncodedApplication{}, dErrors.New(dErrors.CodeInvalidInput, strings.Join(problems, "; "))
	}

	return EncodedApplication{
		PersonAge:           raw.PersonAge,
		PersonIncome:        raw.PersonIncome,
		HomeOwnership:       homeOwnership,
		PersonEmpLength:     raw.PersonEmpLength,
		LoanIntent:          intent,
		LoanGrade:           grade,
		LoanAmount:          raw.LoanAmount,
		LoanIntRate:         raw.LoanIntRate,
		LoanPercentIncome:   raw.LoanPercentIncome,
		DefaultOnFile:       defaultOnFile,
		CreditHistoryLength: raw.CreditHistoryLength,
		LoanTermMonths:      termMonths,
		CreditScore:         raw.CreditScore,
		ExistingLoans:       raw.ExistingLoans,
		DebtToIncomeRatio:   raw.DebtToIncomeRatio,
	}, nil
}

func inPercentRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= MaxPercent
}
