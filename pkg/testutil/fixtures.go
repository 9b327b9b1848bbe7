package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"loanassist/internal/application"
)

// ModelVersion is the version written by WriteManifest.
const ModelVersion = "2025.03"

// EligibleApplication is an application document that passes every
// eligibility rule: a 30 year old earning 60000 borrowing 15000 at grade B
// over 36 months. Callers may mutate the returned map.
func EligibleApplication() map[string]any {
	return map[string]any{
		"person_age":                 30,
		"person_income":              60000,
		"person_home_ownership":      "OWN",
		"person_emp_length":          5,
		"loan_intent":                "EDUCATION",
		"loan_grade":                 "B",
		"loan_amnt":                  15000,
		"loan_int_rate":              10,
		"loan_percent_income":        25,
		"cb_person_default_on_file":  "N",
		"cb_person_cred_hist_length": 6,
		"loan_term":                  "36 months",
		"credit_score":               720,
		"existing_loans":             1,
		"debt_to_income_ratio":       20,
	}
}

// WriteManifest writes a valid model manifest pointing at endpoint into a
// temp dir and returns its path.
func WriteManifest(t *testing.T, endpoint string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("name: loan-approval\n")
	b.WriteString("version: \"" + ModelVersion + "\"\n")
	b.WriteString("endpoint: " + endpoint + "\n")
	b.WriteString("features:\n")
	for _, f := range application.FeatureNames() {
		b.WriteString("  - " + f + "\n")
	}
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}
