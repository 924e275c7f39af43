// Package main provides the CLI entrypoint for metanav.
//
// metanav inspects class descriptors and resolves property paths:
//   - Loads descriptors from a YAML schema or from compiled Go packages
//   - Lists a class's navigable paths with their resolved static types
//   - Resolves a single property path against an instantiation context
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"metanav/internal/analyze"
	"metanav/internal/common"
	"metanav/internal/diagnostic"
	"metanav/internal/ident"
	"metanav/internal/schemafile"
	"metanav/meta"
	"metanav/typeexpr"
)

var (
	schemaPath = flag.String("schema", "", "load class declarations from a YAML schema file")
	typeName   = flag.String("type", "", "class to inspect")
	ctxRef     = flag.String("ctx", "", "instantiation context as a type reference (defaults to the class itself)")
	pathExpr   = flag.String("path", "", "property path to resolve")
	depth      = flag.Int("depth", 2, "member path listing depth")
	noColor    = flag.Bool("no-color", false, "disable colored output")
)

const (
	colorRed    = "31"
	colorGreen  = "32"
	colorYellow = "33"
	colorCyan   = "36"
)

var useColor bool

func main() {
	flag.Usage = usage
	flag.Parse()
	useColor = colorEnabled()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", paint("error:", colorRed), err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: metanav [flags] [packages]\n\n")
	fmt.Fprintf(out, "Inspect class descriptors from a YAML schema or compiled Go packages.\n\n")
	flag.PrintDefaults()
}

func run(patterns []string) error {
	if *typeName == "" && *pathExpr != "" {
		return fmt.Errorf("-path needs -type")
	}
	if *typeName == "" && *ctxRef != "" {
		return fmt.Errorf("-ctx needs -type")
	}

	set, err := loadSet(patterns)
	if err != nil {
		return err
	}

	if *typeName == "" {
		listClasses(set)
		return nil
	}

	cls := set.Resolve(*typeName)
	if cls == nil {
		return unknownClassError(set, *typeName)
	}

	var src typeexpr.Type = cls
	if *ctxRef != "" {
		ctx, err := set.TypeRef(*ctxRef)
		if err != nil {
			return fmt.Errorf("bad context: %w", err)
		}
		if typeexpr.ClassOf(ctx) == nil {
			return fmt.Errorf("context %s is not a class or instantiation", ctx)
		}
		src = ctx
	}

	if *pathExpr != "" {
		return resolvePath(src, *pathExpr)
	}

	describeClass(cls, src)
	return nil
}

// loadSet builds the descriptor set from whichever source the flags
// select.
func loadSet(patterns []string) (*schemafile.Set, error) {
	switch {
	case *schemaPath != "" && !common.IsEmpty(patterns):
		return nil, fmt.Errorf("use either -schema or package patterns, not both")

	case *schemaPath != "":
		set, diags, err := schemafile.Load(*schemaPath)
		if err != nil {
			return nil, err
		}
		printDiagnostics(diags)
		if diags.HasErrors() {
			os.Exit(1)
		}
		return set, nil

	case !common.IsEmpty(patterns):
		graph, err := analyze.NewAnalyzer().LoadPackages(patterns...)
		if err != nil {
			return nil, err
		}
		return schemafile.NewSet(graph.Classes...), nil

	default:
		return nil, fmt.Errorf("nothing to load: pass -schema <file> or package patterns")
	}
}

func printDiagnostics(diags diagnostic.Diagnostics) {
	for _, w := range diags.Warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", paint("warning:", colorYellow), w)
	}
	for _, e := range diags.Errors {
		fmt.Fprintf(os.Stderr, "%s %s\n", paint("error:", colorRed), formatDiagnostic(e))
	}
}

func formatDiagnostic(d diagnostic.Diagnostic) string {
	s := d.String()
	if len(d.Suggestions) > 0 {
		s += fmt.Sprintf(" (did you mean %s?)", strings.Join(d.Suggestions, " or "))
	}
	return s
}

func listClasses(set *schemafile.Set) {
	for _, cls := range set.Classes {
		sig := cls.ID.Name
		if len(cls.Params) > 0 {
			params := make([]string, len(cls.Params))
			for i, p := range cls.Params {
				params[i] = p.Name
			}
			sig += "[" + strings.Join(params, ", ") + "]"
		}

		if alias := common.PkgAlias(cls.ID.PkgPath); alias != "" {
			fmt.Printf("%s.%s\n", alias, paint(sig, colorCyan))
		} else {
			fmt.Println(paint(sig, colorCyan))
		}
	}
}

func unknownClassError(set *schemafile.Set, name string) error {
	var candidates []string
	for _, cls := range set.Classes {
		candidates = append(candidates, cls.ID.Name, cls.ID.String())
	}
	if best, ok := ident.Closest(name, candidates, 2); ok {
		return fmt.Errorf("unknown class %q (did you mean %s?)", name, best)
	}
	return fmt.Errorf("unknown class %q", name)
}

// resolvePath resolves one property path and prints its static type.
// An inexact spelling falls back to case-insensitive lookup and prints
// the canonical path instead.
func resolvePath(src typeexpr.Type, path string) error {
	mc := meta.ClassOf(src)

	if resolved, ok := mc.GetterType(path); ok {
		fmt.Printf("%s %s\n", path, paint(resolved.String(), colorGreen))
		return nil
	}

	if canonical, ok := mc.FindProperty(path, true); ok && canonical != path {
		if resolved, ok := mc.GetterType(canonical); ok {
			fmt.Printf("%s %s\n", canonical, paint(resolved.String(), colorGreen))
			return nil
		}
	}

	return fmt.Errorf("cannot resolve %q against %s", path, src)
}

// describeClass prints the declaration block followed by the navigable
// paths resolved against src.
func describeClass(cls *typeexpr.Class, src typeexpr.Type) {
	fmt.Print(analyze.Describe(cls))

	paths := analyze.MemberPathsIn(cls, src, *depth)
	if len(paths) == 0 {
		return
	}

	keys := make([]string, 0, len(paths))
	width := 0
	for k := range paths {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)

	fmt.Println()
	for _, k := range keys {
		fmt.Printf("  %-*s %s\n", width, k, paint(paths[k].String(), colorGreen))
	}
}

// colorEnabled follows the NO_COLOR convention, honors TERM=dumb, and
// falls back to terminal detection.
func colorEnabled() bool {
	if *noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func paint(s, color string) string {
	if !useColor {
		return s
	}
	return "\x1b[" + color + "m" + s + "\x1b[0m"
}
