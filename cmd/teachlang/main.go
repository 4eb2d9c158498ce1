// Command teachlang is the cobra-based CLI front end: run, ast, and
// check subcommands over the interpreter package (§6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teachlang"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teachlang [path]",
		Short: "Run, inspect, or check a teachlang source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmdFunc(cmd, args)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Parse, analyze, and evaluate a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCmdFunc,
	}
	runCmd.Flags().String("glob", "", "run every file matched by a shell glob pattern instead of a single path")

	astCmd := &cobra.Command{
		Use:   "ast [path]",
		Short: "Parse and print the parse tree without analyzing or evaluating",
		Args:  cobra.MaximumNArgs(1),
		RunE:  astCmdFunc,
	}

	checkCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Lex, parse, and analyze a file, printing OK or the diagnostic",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkCmdFunc,
	}
	checkCmd.Flags().String("glob", "", "check every file matched by a shell glob pattern instead of a single path")

	root.Flags().String("glob", "", "run every file matched by a shell glob pattern instead of a single path")
	root.AddCommand(runCmd, astCmd, checkCmd)
	return root
}

const defaultProgram = `program
  display("hello from teachlang")
end program
`

func readSource(args []string) (name, src string, err error) {
	if len(args) == 0 {
		return "<default>", defaultProgram, nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(b), nil
}

func loadConfig() *teachlang.Config {
	cfg := teachlang.NewConfig()
	if err := cfg.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "teachlang: warning: %v\n", err)
	}
	return cfg
}

func runCmdFunc(cmd *cobra.Command, args []string) error {
	if glob, _ := cmd.Flags().GetString("glob"); glob != "" {
		return runGlob(glob)
	}
	name, src, err := readSource(args)
	if err != nil {
		return err
	}
	return runSource(name, src)
}

func runGlob(pattern string) error {
	paths, err := expandGlob(pattern)
	if err != nil {
		return err
	}
	failed := false
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			failed = true
			continue
		}
		if err := runSource(p, string(b)); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("one or more files failed")
	}
	return nil
}

func runSource(name, src string) error {
	root, cfg, symtab, err := parseAndAnalyze(name, src)
	if err != nil {
		return err
	}
	lib := teachlang.NewDefaultLibrary(teachlang.NewSink(func(s string) { fmt.Println(s) }))
	ev := teachlang.NewEvaluator(symtab, lib, cfg.GetInt("interpreter.max_call_depth"))
	if err := ev.Run(root); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return err
	}
	return nil
}

func astCmdFunc(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(args)
	if err != nil {
		return err
	}
	root, err := parseSource(name, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return err
	}
	fmt.Print(root.Pretty())
	return nil
}

func checkCmdFunc(cmd *cobra.Command, args []string) error {
	if glob, _ := cmd.Flags().GetString("glob"); glob != "" {
		paths, err := expandGlob(glob)
		if err != nil {
			return err
		}
		failed := false
		for _, p := range paths {
			b, err := os.ReadFile(p)
			if err != nil {
				fmt.Printf("%s: %v\n", p, err)
				failed = true
				continue
			}
			if _, _, _, err := parseAndAnalyze(p, string(b)); err != nil {
				fmt.Printf("%s: %v\n", p, err)
				failed = true
				continue
			}
			fmt.Printf("%s: OK\n", p)
		}
		if failed {
			return fmt.Errorf("one or more files failed")
		}
		return nil
	}

	name, src, err := readSource(args)
	if err != nil {
		return err
	}
	if _, _, _, err := parseAndAnalyze(name, src); err != nil {
		fmt.Printf("%s: %v\n", name, err)
		return err
	}
	fmt.Printf("%s: OK\n", name)
	return nil
}
