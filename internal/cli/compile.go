package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mossgen/internal/compiler"
	"github.com/roach88/mossgen/internal/logic"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dataset DatasetFlags
	Strict  bool
	All     bool
}

// CompiledRule is the JSON payload for one compiled rule.
type CompiledRule struct {
	Rule        string   `json:"rule"`
	Expr        string   `json:"expr,omitempty"`
	Hash        string   `json:"hash,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [rule]",
		Short: "Compile a rule string against a dataset's catalog",
		Long: `Compile a rule string into its predicate and content hash.

Names resolve against the dataset's catalog: events first, then option
flags, then aliases, then items. With --all, every rule in the dataset's
logic table is compiled instead of a single argument.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	opts.Dataset.Register(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat diagnostics as errors")
	cmd.Flags().BoolVar(&opts.All, "all", false, "compile every rule in the dataset")

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.All == (len(args) == 1) {
		return NewExitError(ExitCommandError, "provide exactly one rule argument or --all")
	}

	dataset, runOpts, err := opts.Dataset.Load()
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return err
	}

	cat, err := dataset.Catalog()
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "building catalog", err)
	}

	events := make(map[string]bool, len(dataset.Events))
	for _, e := range dataset.Events {
		events[e] = true
	}

	var copts []compiler.CompilerOption
	if opts.Strict {
		copts = append(copts, compiler.WithStrict())
	}
	comp := compiler.New(compiler.Env{
		Catalog: cat,
		Events:  events,
		Flags:   runOpts.Flags(),
	}, copts...)

	texts := args
	if opts.All {
		texts = make([]string, len(dataset.Rules))
		for i, entry := range dataset.Rules {
			texts[i] = entry.Rule
		}
		formatter.VerboseLog("Compiling %d rule(s)", len(texts))
	}

	var (
		compiled []CompiledRule
		failed   bool
	)
	for _, text := range texts {
		rule, err := comp.Compile(text)
		if err != nil {
			var compileErr *compiler.Error
			if !errors.As(err, &compileErr) {
				return WrapExitError(ExitCommandError, "compiling rule", err)
			}
			out := CompiledRule{Rule: text}
			for _, diag := range compileErr.Diagnostics {
				out.Diagnostics = append(out.Diagnostics, diag.Message)
			}
			compiled = append(compiled, out)
			failed = true
			continue
		}

		out := CompiledRule{Rule: text}
		for _, diag := range rule.Diagnostics {
			out.Diagnostics = append(out.Diagnostics, diag.Message)
		}
		if !rule.Unconditional() {
			out.Expr = rule.Expr.String()
			hash, err := logic.ExprHash(rule.Expr)
			if err != nil {
				return WrapExitError(ExitCommandError, "hashing expression", err)
			}
			out.Hash = hash
		}
		compiled = append(compiled, out)
	}

	if opts.Format == "json" {
		if err := formatter.Success(compiled); err != nil {
			return err
		}
	} else {
		for _, out := range compiled {
			printCompiledRule(formatter, out)
		}
	}

	if failed {
		return NewExitError(ExitFailure, "one or more rules failed to compile")
	}
	return nil
}

func printCompiledRule(formatter *OutputFormatter, out CompiledRule) {
	fmt.Fprintf(formatter.Writer, "rule: %q\n", out.Rule)
	if out.Expr != "" {
		fmt.Fprintf(formatter.Writer, "  expr: %s\n", out.Expr)
		fmt.Fprintf(formatter.Writer, "  hash: %s\n", out.Hash)
	} else if len(out.Diagnostics) == 0 {
		fmt.Fprintf(formatter.Writer, "  expr: (unconditional)\n")
	}
	for _, diag := range out.Diagnostics {
		fmt.Fprintf(formatter.Writer, "  diagnostic: %s\n", diag)
	}
}
