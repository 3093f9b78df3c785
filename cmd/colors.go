package cmd

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatOutcome renders the one-line status printed after a command line check
func formatOutcome(check, target string, err error) string {
	if err != nil {
		return fmt.Sprintf("%s %s %s: %v", colorError("FAIL"), check, colorInfo(target), err)
	}

	return fmt.Sprintf("%s %s %s", colorSuccess("OK"), check, colorInfo(target))
}

// formatExpiry warns about a certificate inside the alert window, returning "" otherwise
func formatExpiry(daysRemaining, alertDays int) string {
	switch {
	case daysRemaining < 0:
		return colorError(fmt.Sprintf("certificate expired %d day(s) ago", -daysRemaining))
	case daysRemaining < alertDays:
		return colorWarn(fmt.Sprintf("certificate expires in %d day(s)", daysRemaining))
	default:
		return ""
	}
}
