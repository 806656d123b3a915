package main

import (
	"fmt"
	"os"
)

// ANSI styles for terminal output. NO_COLOR disables them.
const (
	styleInfo    = "\033[0;34m"
	styleOK      = "\033[0;32m"
	styleWarn    = "\033[1;33m"
	styleFail    = "\033[0;31m"
	styleReset   = "\033[0m"
	envNoColor   = "NO_COLOR"
	headerFormat = "\n=== %s ==="
)

func printStyled(style, prefix, format string, a ...interface{}) {
	line := prefix + fmt.Sprintf(format, a...)
	if os.Getenv(envNoColor) != "" {
		fmt.Println(line)
		return
	}
	fmt.Println(style + line + styleReset)
}

func PrintInfo(format string, a ...interface{})    { printStyled(styleInfo, "ℹ ", format, a...) }
func PrintSuccess(format string, a ...interface{}) { printStyled(styleOK, "✓ ", format, a...) }
func PrintWarning(format string, a ...interface{}) { printStyled(styleWarn, "⚠ ", format, a...) }
func PrintError(format string, a ...interface{})   { printStyled(styleFail, "✗ ", format, a...) }

func PrintHeader(format string, a ...interface{}) {
	printStyled(styleWarn, "", headerFormat, fmt.Sprintf(format, a...))
}
