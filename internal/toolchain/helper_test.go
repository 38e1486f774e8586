package toolchain

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// helperTemplate re-executes the test binary as a fake external tool.
func helperTemplate(t *testing.T, mode string) Template {
	t.Helper()
	t.Setenv("DSOLVE_HELPER_PROCESS", "1")
	return Template{argv: []string{os.Args[0], "-test.run=TestHelperProcess", "--", mode}}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("DSOLVE_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}
	mode, rest := args[1], args[2:]

	switch mode {
	case "echo":
		fmt.Fprintln(os.Stdout, strings.Join(rest, " "))
	case "stderr":
		fmt.Fprint(os.Stderr, strings.Join(rest, "\n")+"\n")
	case "fail":
		fmt.Fprintln(os.Stderr, "solver: unbound qualifier")
		os.Exit(3)
	case "version":
		fmt.Println("liquid.opt version 2.3.1")
	case "noversion":
		fmt.Println("usage: liquid.opt [options] file.ml")
	}
	os.Exit(0)
}
