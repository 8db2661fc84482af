package util

import (
	"fmt"
)

// Ansi colors
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	White  = "\033[97m"
)

// Ansi styles
const (
	Bold      = "\033[1m"
	Underline = "\033[4m"
)

// Ansi 256 light colors
const (
	LightRed    = "\033[91m"
	LightGreen  = "\033[92m"
	LightYellow = "\033[93m"
	LightCyan   = "\033[96m"
)

// PrintSuccess prints a success message to the console
func PrintSuccess(msg string) {
	fmt.Printf("%s[+]%s %s\n", Green, Reset, msg)
}

// PrintError prints an error message to the console
func PrintError(msg string) {
	fmt.Printf("%s[!]%s %s\n", Red, Reset, msg)
}

// PrintErrorf prints a formatted error message to the console
func PrintErrorf(format string, a ...interface{}) {
	fmt.Printf("%s[!]%s %s\n", Red, Reset, fmt.Sprintf(format, a...))
}

// PrintInfo prints an info message to the console
func PrintInfo(msg string) {
	fmt.Printf("%s[i]%s %s\n", Cyan, Reset, msg)
}

// PrintInfof prints a formatted info message to the console
func PrintInfof(format string, a ...interface{}) {
	fmt.Printf("%s[i]%s %s\n", Cyan, Reset, fmt.Sprintf(format, a...))
}

// PrintWarning prints a warning message to the console
func PrintWarning(msg string) {
	fmt.Printf("%s[-]%s %s\n", Yellow, Reset, msg)
}

// PrintWarningf prints a formatted warning message to the console
func PrintWarningf(format string, a ...interface{}) {
	fmt.Printf("%s[-]%s %s\n", Yellow, Reset, fmt.Sprintf(format, a...))
}

// PrintDebug prints a debug message to the console
func PrintDebug(msg string) {
	fmt.Printf("%s[DEBUG]%s %s\n", Gray, Reset, msg)
}

// PrintBold prints a bold message to the console
func PrintBold(msg string) {
	fmt.Printf("%s%s%s\n", Bold, msg, Reset)
}

// PrintColor prints a colored message to the console
func PrintColor(color, msg string) {
	fmt.Printf("%s%s%s\n", color, msg, Reset)
}

// ColorF wraps a formatted string in the given color
func ColorF(color, format string, a ...interface{}) string {
	return fmt.Sprintf("%s%s%s", color, fmt.Sprintf(format, a...), Reset)
}

func Errorf(format string, a ...interface{}) error {
	return fmt.Errorf("%s[!]%s %s", Red, Reset, fmt.Sprintf(format, a...))
}
