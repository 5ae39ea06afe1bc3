package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stigoleg/mousemover/internal/cli"
)

// This small tool writes shell completions and a man page generated from the
// mousemover command tree.

const (
	appName    = "mousemover"
	homepage   = "https://github.com/stigoleg/mousemover"
	outDocs    = "docs"
	outMan     = "man"
	completion = "completions"
)

func main() {
	root := cli.NewRootCmd(cli.App{Version: "docs"})

	if err := writeCompletions(root, filepath.Join(outDocs, completion)); err != nil {
		fmt.Fprintln(os.Stderr, "completions:", err)
		os.Exit(1)
	}
	if err := writeMan(root, outMan); err != nil {
		fmt.Fprintln(os.Stderr, "man page:", err)
		os.Exit(1)
	}
}

func writeCompletions(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := root.GenBashCompletionFileV2(filepath.Join(dir, appName+".bash"), true); err != nil {
		return err
	}
	if err := root.GenZshCompletionFile(filepath.Join(dir, "_"+appName)); err != nil {
		return err
	}
	return root.GenFishCompletionFile(filepath.Join(dir, appName+".fish"), true)
}

func writeMan(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, appName+".1"), []byte(manPage(root)), 0o644)
}

// manPage renders a minimal roff page that mirrors --help.
func manPage(root *cobra.Command) string {
	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(appName) + "\" \"1\" \"\" \"" + appName + "\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + appName + " \\- " + roff(root.Short) + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + appName + "\n[flags]\n")
	b.WriteString(".br\n.B " + appName + "\n[config|version]\n")
	b.WriteString(".SH DESCRIPTION\n" + roff(root.Long) + "\n")

	b.WriteString(".SH OPTIONS\n")
	flags := root.PersistentFlags()
	flags.SortFlags = true
	flags.VisitAll(func(f *pflag.Flag) {
		b.WriteString(".TP\n\\fB" + flagNames(f) + "\\fR\n" + roff(f.Usage))
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			b.WriteString(" (default " + roff(f.DefValue) + ")")
		}
		b.WriteString("\n")
	})

	b.WriteString(".SH COMMANDS\n")
	for _, c := range root.Commands() {
		if c.Hidden || c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		b.WriteString(".TP\n\\fB" + c.Name() + "\\fR\n" + roff(c.Short) + "\n")
	}

	b.WriteString(".SH ENVIRONMENT\nEvery option can be set as MOUSEMOVER_<OPTION>, for example MOUSEMOVER_IDLE=60 or MOUSEMOVER_LOG_FILE=/tmp/mm.log.\n")
	b.WriteString(".SH EXAMPLES\n.nf\n" + roff(root.Example) + "\n.fi\n")
	b.WriteString(".SH SEE ALSO\nProject homepage: " + homepage + "\n")
	return b.String()
}

func flagNames(f *pflag.Flag) string {
	names := "\\-\\-" + f.Name
	if f.Shorthand != "" {
		names = "\\-" + f.Shorthand + ", " + names
	}
	if f.Value.Type() != "bool" {
		names += " <" + f.Value.Type() + ">"
	}
	return names
}

func roff(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "-", "\\-")
}
