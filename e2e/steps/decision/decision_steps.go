package decision

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers loan decision step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &decisionSteps{tc: tc}

	ctx.Step(`^an eligible loan application$`, steps.eligibleApplication)
	ctx.Step(`^the application has "([^"]*)" set to "([^"]*)"$`, steps.setStringField)
	ctx.Step(`^the application has "([^"]*)" set to (-?\d+(?:\.\d+)?)$`, steps.setNumberField)
	ctx.Step(`^the application has no "([^"]*)"$`, steps.removeField)
	ctx.Step(`^I submit the application$`, steps.submit)
	ctx.Step(`^I request the rule catalog$`, steps.requestRules)
	ctx.Step(`^I request the audit trail for that decision$`, steps.requestAuditTrail)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the outcome should be "([^"]*)"$`, steps.fieldShouldBe("outcome"))
	ctx.Step(`^the class should be "([^"]*)"$`, steps.fieldShouldBe("class"))
	ctx.Step(`^the message should be "([^"]*)"$`, steps.fieldShouldBe("message"))
	ctx.Step(`^the rule "([^"]*)" should have rejected it$`, steps.fieldShouldBe("rule_id"))
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.fieldShouldBe("error"))
	ctx.Step(`^no model score should be reported$`, steps.noScore)
	ctx.Step(`^the catalog should list (\d+) rules$`, steps.catalogSize)
}

type decisionSteps struct {
	tc          TestContext
	application map[string]any
	decisionID  string
}

func (s *decisionSteps) eligibleApplication(context.Context) error {
	s.application = map[string]any{
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
	return nil
}

func (s *decisionSteps) setStringField(_ context.Context, field, value string) error {
	s.application[field] = value
	return nil
}

func (s *decisionSteps) setNumberField(_ context.Context, field, value string) error {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	s.application[field] = n
	return nil
}

func (s *decisionSteps) removeField(_ context.Context, field string) error {
	delete(s.application, field)
	return nil
}

func (s *decisionSteps) submit(context.Context) error {
	if err := s.tc.POST("/loan/decisions", s.application); err != nil {
		return err
	}
	if id, err := s.tc.GetResponseField("decision_id"); err == nil {
		s.decisionID, _ = id.(string)
	}
	return nil
}

func (s *decisionSteps) requestRules(context.Context) error {
	return s.tc.GET("/loan/rules")
}

func (s *decisionSteps) requestAuditTrail(context.Context) error {
	if s.decisionID == "" {
		return fmt.Errorf("no decision has been made in this scenario")
	}
	return s.tc.GET("/loan/decisions/" + s.decisionID + "/audit")
}

func (s *decisionSteps) statusShouldBe(_ context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *decisionSteps) fieldShouldBe(field string) func(context.Context, string) error {
	return func(_ context.Context, expected string) error {
		value, err := s.tc.GetResponseField(field)
		if err != nil {
			return err
		}
		if value != expected {
			return fmt.Errorf("expected %s %q, got %v", field, expected, value)
		}
		return nil
	}
}

func (s *decisionSteps) noScore(context.Context) error {
	if _, err := s.tc.GetResponseField("score"); err == nil {
		return fmt.Errorf("expected no score, got %s", s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *decisionSteps) catalogSize(_ context.Context, expected int) error {
	rules, err := s.tc.GetResponseField("rules")
	if err != nil {
		return err
	}
	list, ok := rules.([]any)
	if !ok || len(list) != expected {
		return fmt.Errorf("expected %d rules, got %v", expected, rules)
	}
	return nil
}
