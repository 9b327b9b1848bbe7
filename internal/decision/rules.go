package decision

import (
	"math"

	"loanassist/internal/application"
)

// RuleID identifies an eligibility rule in logs, metrics and audit events.
type RuleID string

const (
	RuleNoIncome              RuleID = "no_income"
	RuleLowCreditScore        RuleID = "low_credit_score"
	RuleHighDebtToIncome      RuleID = "high_debt_to_income"
	RuleShortEmployment       RuleID = "short_employment"
	RuleLoanTooHighForIncome  RuleID = "loan_too_high_for_income"
	RuleAgeOutOfRange         RuleID = "age_out_of_range"
	RulePriorDefault          RuleID = "prior_default"
	RuleShortCreditHistory    RuleID = "short_credit_history"
	RuleTooManyLoans          RuleID = "too_many_existing_loans"
	RuleHighInterestRate      RuleID = "high_interest_rate"
	RuleHighLoanPercentIncome RuleID = "high_loan_percent_income"
	RuleUnclearHomeOwnership  RuleID = "unclear_home_ownership"
	RuleLowLoanGrade          RuleID = "low_loan_grade"
	RuleHighRiskLongTerm      RuleID = "high_risk_grade_long_term"
)

// Eligibility limits. Comparisons are strict unless noted on the rule.
const (
	MinCreditScore         = 600
	MaxDebtToIncomeRatio   = 40.0
	MinEmploymentYears     = 1
	MaxLoanToIncomeFactor  = 5
	MinEligibleAge         = 21
	MaxEligibleAge         = 65
	MinCreditHistoryYears  = 2
	MaxExistingLoans       = 3
	MaxInterestRate        = 20.0
	MaxLoanPercentIncome   = 50.0
	MaxAcceptableGradeCode = application.CodeLoanGradeE
	MaxLongTermGradeCode   = application.CodeLoanGradeD
)

// Rule is one hard eligibility check. A rule that matches rejects the
// application regardless of the model score.
type Rule struct {
	ID      RuleID `json:"id"`
	Order   int    `json:"order"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type check struct {
	Rule
	matches func(application.EncodedApplication) bool
}

// battery is evaluated top to bottom; the first match is the reported reason.
var battery = []check{
	{
		Rule: Rule{
			ID:      RuleNoIncome,
			Reason:  "no income",
			Message: "Loan Rejected: Applicant has no income.",
		},
		matches: func(a application.EncodedApplication) bool { return a.PersonIncome == 0 },
	},
	{
		Rule: Rule{
			ID:      RuleLowCreditScore,
			Reason:  "low credit score",
			Message: "Loan Rejected: Low credit score.",
		},
		matches: func(a application.EncodedApplication) bool { return a.CreditScore < MinCreditScore },
	},
	{
		Rule: Rule{
			ID:      RuleHighDebtToIncome,
			Reason:  "high debt-to-income ratio",
			Message: "Loan Rejected: High debt-to-income ratio.",
		},
		matches: func(a application.EncodedApplication) bool { return a.DebtToIncomeRatio > MaxDebtToIncomeRatio },
	},
	{
		Rule: Rule{
			ID:      RuleShortEmployment,
			Reason:  "employment length < 1 year",
			Message: "Loan Rejected: Applicant has less than 1 year of employment.",
		},
		matches: func(a application.EncodedApplication) bool { return a.PersonEmpLength < MinEmploymentYears },
	},
	{
		Rule: Rule{
			ID:      RuleLoanTooHighForIncome,
			Reason:  "loan amount too high relative to income",
			Message: "Loan Rejected: Loan amount is too high compared to income.",
		},
		matches: loanTooHighForIncome,
	},
	{
		Rule: Rule{
			ID:      RuleAgeOutOfRange,
			Reason:  "age outside 21–65",
			Message: "Loan Rejected: Applicant does not meet the age requirement.",
		},
		matches: func(a application.EncodedApplication) bool {
			return a.PersonAge < MinEligibleAge || a.PersonAge > MaxEligibleAge
		},
	},
	{
		Rule: Rule{
			ID:      RulePriorDefault,
			Reason:  "prior default on file",
			Message: "Loan Rejected: Applicant has previously defaulted on a loan.",
		},
		matches: func(a application.EncodedApplication) bool { return a.DefaultOnFile == application.CodeDefaultOnFile },
	},
	{
		Rule: Rule{
			ID:      RuleShortCreditHistory,
			Reason:  "credit history too short",
			Message: "Loan Rejected: Credit history is too short (less than 2 years).",
		},
		matches: func(a application.EncodedApplication) bool { return a.CreditHistoryLength < MinCreditHistoryYears },
	},
	{
		Rule: Rule{
			ID:      RuleTooManyLoans,
			Reason:  "too many existing loans",
			Message: "Loan Rejected: Too many existing loans.",
		},
		matches: func(a application.EncodedApplication) bool { return a.ExistingLoans > MaxExistingLoans },
	},
	{
		Rule: Rule{
			ID:      RuleHighInterestRate,
			Reason:  "interest rate too high",
			Message: "Loan Rejected: High interest rate makes repayment risky.",
		},
		matches: func(a application.EncodedApplication) bool { return a.LoanIntRate > MaxInterestRate },
	},
	{
		Rule: Rule{
			ID:      RuleHighLoanPercentIncome,
			Reason:  "loan exceeds 50% of income",
			Message: "Loan Rejected: Loan amount exceeds 50% of monthly income.",
		},
		matches: func(a application.EncodedApplication) bool { return a.LoanPercentIncome > MaxLoanPercentIncome },
	},
	{
		Rule: Rule{
			ID:      RuleUnclearHomeOwnership,
			Reason:  "unclear home-ownership status",
			Message: "Loan Rejected: Home ownership status is unclear or other.",
		},
		matches: func(a application.EncodedApplication) bool {
			return a.HomeOwnership == application.CodeHomeOwnershipOther
		},
	},
	{
		Rule: Rule{
			ID:      RuleLowLoanGrade,
			Reason:  "loan grade too low (high risk)",
			Message: "Loan Rejected: Loan grade is too low (high risk).",
		},
		matches: func(a application.EncodedApplication) bool { return a.LoanGrade > MaxAcceptableGradeCode },
	},
	{
		Rule: Rule{
			ID:      RuleHighRiskLongTerm,
			Reason:  "high-risk grade with long term",
			Message: "Loan Rejected: High-risk loan grade with a long loan term (60 months).",
		},
		matches: func(a application.EncodedApplication) bool {
			return a.LoanTermMonths == application.TermMonthsLong && a.LoanGrade > MaxLongTermGradeCode
		},
	},
}

func init() {
	for i := range battery {
		battery[i].Order = i + 1
	}
}

// loanTooHighForIncome rejects amounts strictly above five times income. An
// income large enough to overflow the product can never be exceeded.
func loanTooHighForIncome(a application.EncodedApplication) bool {
	if a.PersonIncome > math.MaxInt64/MaxLoanToIncomeFactor {
		return false
	}
	return a.LoanAmount > a.PersonIncome*MaxLoanToIncomeFactor
}

// Rules returns the eligibility battery in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(battery))
	for i, c := range battery {
		out[i] = c.Rule
	}
	return out
}

// FirstMatch returns the first rule in the battery that rejects app.
func FirstMatch(app application.EncodedApplication) (Rule, bool) {
	for _, c := range battery {
		if c.matches(app) {
			return c.Rule, true
		}
	}
	return Rule{}, false
}
