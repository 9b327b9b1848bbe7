package e2e

import (
	"github.com/cucumber/godog"

	"loanassist/e2e/steps/decision"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	decision.RegisterSteps(ctx, tc)
}
