// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"gopkg.in/urfave/cli.v1"

	"dream/internal/pipeline"
	"dream/internal/repl"
)

var version = "0.1.0"

var (
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "write the LLVM IR to `FILE` instead of stdout (single input only)",
	}
	emitLLVMFlag = cli.BoolTFlag{
		Name:  "emit-llvm",
		Usage: "emit LLVM IR text after a successful compile",
	}
	lexOnlyFlag = cli.BoolFlag{
		Name:  "lex-only",
		Usage: "stop after tokenizing and print the token table",
	}
	parseOnlyFlag = cli.BoolFlag{
		Name:  "parse-only",
		Usage: "stop after parsing and print the syntax tree",
	}
	semanticOnlyFlag = cli.BoolFlag{
		Name:  "semantic-only",
		Usage: "stop after semantic analysis and print the symbol table",
	}
	dumpASTFlag = cli.BoolFlag{
		Name:  "dump-ast",
		Usage: "dump the Go representation of the syntax tree",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print the result of the last stage as JSON",
	}
	outlineFlag = cli.BoolFlag{
		Name:  "outline",
		Usage: "print the top-level declarations and exit",
	}
	jobsFlag = cli.IntFlag{
		Name:  "jobs, j",
		Usage: "number of files compiled in parallel (0 = unlimited)",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "log pipeline stages and timings to stderr",
	}
)

func init() {
	// -v belongs to --verbose
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dreamcc"
	app.Usage = "compile Dream sources to LLVM IR"
	app.Version = version
	app.ArgsUsage = "<file.dream>..."
	app.Flags = []cli.Flag{
		outputFlag,
		emitLLVMFlag,
		lexOnlyFlag,
		parseOnlyFlag,
		semanticOnlyFlag,
		dumpASTFlag,
		jsonFlag,
		outlineFlag,
		jobsFlag,
		verboseFlag,
		configFileFlag,
		colorFlag,
		moduleIDFlag,
		targetFlag,
		noWarningsFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		verbosity := -1
		if ctx.GlobalBool("verbose") {
			verbosity = 2
		}
		commonlog.Configure(verbosity, nil)
		return nil
	}
	app.Action = compile
	app.Commands = []cli.Command{
		replCommand,
		dumpConfigCommand,
	}
	return app
}

var replCommand = cli.Command{
	Action:    runREPL,
	Name:      "repl",
	Usage:     "Start an interactive session",
	ArgsUsage: "",
	Description: `The repl command reads declarations one at a time, compiles each
together with the ones entered before and reports its diagnostics.`,
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// compile is the default action: run the pipeline over every input file
func compile(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("no input files", 2)
	}
	paths := []string(ctx.Args())

	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	applyColor(cfg.Output.Color)

	if ctx.Bool(outlineFlag.Name) {
		return printOutlines(os.Stdout, paths)
	}

	output := ctx.String("output")
	if output != "" && len(paths) > 1 {
		return cli.NewExitError("--output needs exactly one input file", 2)
	}

	stage := stopAfter(ctx)
	start := time.Now()

	units, err := pipeline.CompileFiles(context.Background(), paths, pipeline.Options{
		Config:    cfg,
		StopAfter: stage,
		Jobs:      ctx.Int("jobs"),
	})
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var out io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("create output: %s", err), 1)
		}
		defer f.Close()
		out = f
	}

	e := &emitter{
		out:      out,
		errOut:   os.Stderr,
		stage:    stage,
		json:     ctx.Bool(jsonFlag.Name),
		dumpAST:  ctx.Bool(dumpASTFlag.Name),
		emitLLVM: ctx.BoolT(emitLLVMFlag.Name),
	}
	failed := 0
	for _, unit := range units {
		if err := e.emit(unit); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if unit.HasErrors() {
			failed++
		}
	}

	elapsed := formatDuration(time.Since(start))
	if failed > 0 {
		color.New(color.FgRed).Fprintf(os.Stderr, "Compilation failed for %d of %d file(s) after %s\n", failed, len(units), elapsed)
		return cli.NewExitError("", 1)
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "Successfully processed %d file(s) in %s\n", len(units), elapsed)
	return nil
}

func stopAfter(ctx *cli.Context) pipeline.Stage {
	switch {
	case ctx.Bool(lexOnlyFlag.Name):
		return pipeline.StageLex
	case ctx.Bool(parseOnlyFlag.Name):
		return pipeline.StageParse
	case ctx.Bool(semanticOnlyFlag.Name):
		return pipeline.StageAnalyze
	default:
		return pipeline.StageGenerate
	}
}

func runREPL(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	applyColor(cfg.Output.Color)

	session := repl.NewSession(cfg)
	if !isTerminal(os.Stdin) {
		err = repl.StartPiped(session, os.Stdin, os.Stdout, os.Stderr)
	} else {
		err = repl.Start(session)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
