// Command loanctl evaluates loan applications and inspects the rule battery
// and input schema without running the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	dErrors "loanassist/pkg/domain-errors"
)

// Exit codes beyond the generic failure.
const (
	exitInvalidInput = 2
	exitScoring      = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return exitInvalidInput
	case dErrors.CodeScoring:
		return exitScoring
	default:
		return 1
	}
}
