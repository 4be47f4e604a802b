// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/tebeka/atexit"

	"github.com/Santi-I-Guess/final-project/config"
	"github.com/Santi-I-Guess/final-project/translate"
)

var f = translate.From

// useColor decides if diagnostics written to fd are colored.
func useColor(mode string, fd uintptr) bool {
	switch mode {
	case config.COLOR_ALWAYS:
		return true
	case config.COLOR_NEVER:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// failure formats a fatal diagnostic.
func failure(err error, color bool) string {
	msg := f("pal: %v", err)
	if color {
		msg = text.Escape(msg, text.Colors{text.FgRed, text.Bold}.EscapeSeq())
	}
	return msg
}

func main() {
	pal := newPal(os.Stdin, os.Stdout, os.Stderr)
	cmd := pal.rootCommand()

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, failure(err, useColor(pal.color(), os.Stderr.Fd())))
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
