package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"missionreview/internal/diag"
	"missionreview/internal/diagfmt"
	"missionreview/internal/lexer"
	"missionreview/internal/parser"
	"missionreview/internal/preproc"
	"missionreview/internal/source"
	"missionreview/internal/token"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file>",
	Short: "Preprocess and parse a config file and print its tree",
	Long:  `Parse mission.sqm, description.ext or any config file and print the class tree or the token stream`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().Bool("tokens", false, "print tokens instead of the tree")
	parseCmd.Flags().Bool("no-preproc", false, "parse the raw file without preprocessing")
	parseCmd.Flags().StringToString("define", nil, "predefine macros (NAME=body)")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	tokens, err := cmd.Flags().GetBool("tokens")
	if err != nil {
		return fmt.Errorf("failed to get tokens flag: %w", err)
	}
	noPreproc, err := cmd.Flags().GetBool("no-preproc")
	if err != nil {
		return fmt.Errorf("failed to get no-preproc flag: %w", err)
	}
	defines, err := cmd.Flags().GetStringToString("define")
	if err != nil {
		return fmt.Errorf("failed to get define flag: %w", err)
	}

	fs := source.NewFileSet()
	var (
		file    *source.File
		mapping source.Mapping
	)
	if noPreproc {
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		file = fs.Get(id)
	} else {
		processed, err := preproc.Run(fs, path, preproc.Options{Defines: defines})
		if err != nil {
			var perr *preproc.Error
			if errors.As(err, &perr) {
				return fmt.Errorf("%s:%d:%d: %s", perr.Pos.Path, perr.Pos.Line, perr.Pos.Col, perr.Msg)
			}
			return err
		}
		file = fs.Get(processed.File)
		mapping = processed
	}

	out := cmd.OutOrStdout()
	if tokens {
		lx := lexer.New(file, lexer.Options{})
		var toks []token.Token
		for {
			tok := lx.Next()
			toks = append(toks, tok)
			if tok.Kind == token.EOF {
				break
			}
		}
		if format == "json" {
			return diagfmt.FormatTokensJSON(out, toks, fs)
		}
		return diagfmt.FormatTokensPretty(out, toks, fs)
	}

	res := parser.ParseFile(file, parser.Options{})
	if len(res.Errors) > 0 {
		bag := diag.NewBag(0)
		for _, e := range res.Errors {
			d, err := diag.New(mapping, path, e.Span, e.Msg, diag.LevelError)
			if err != nil {
				return err
			}
			bag.Add(d.WithTitle("syntax"))
		}
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), bag, diagfmt.PrettyOpts{Color: color, Context: true}); err != nil {
			return err
		}
	}

	if format == "json" {
		err = diagfmt.FormatDocumentJSON(out, res.Doc, fs)
	} else {
		err = diagfmt.FormatDocumentPretty(out, res.Doc, fs)
	}
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return exitError{code: 1}
	}
	return nil
}
