// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"dream/internal/config"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[<file>]",
		Description: `The dumpconfig command shows the effective configuration as TOML.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	colorFlag = cli.StringFlag{
		Name:  "color",
		Usage: "colorize diagnostics: auto, always or never",
	}
	moduleIDFlag = cli.StringFlag{
		Name:  "module-id",
		Usage: "LLVM module identifier",
	}
	targetFlag = cli.StringFlag{
		Name:  "target",
		Usage: "target triple written to the module header",
	}
	noWarningsFlag = cli.BoolFlag{
		Name:  "no-warnings",
		Usage: "do not report warnings",
	}
)

// loadConfig reads the --config file over the defaults and applies the
// flags that override it
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Defaults
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if ctx.GlobalIsSet(colorFlag.Name) {
		cfg.Output.Color = ctx.GlobalString(colorFlag.Name)
	}
	if ctx.GlobalIsSet(moduleIDFlag.Name) {
		cfg.Compiler.ModuleID = ctx.GlobalString(moduleIDFlag.Name)
	}
	if ctx.GlobalIsSet(targetFlag.Name) {
		cfg.Compiler.TargetTriple = ctx.GlobalString(targetFlag.Name)
	}
	if ctx.GlobalBool(noWarningsFlag.Name) {
		cfg.Compiler.EmitWarnings = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &cfg, nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	out, err := cfg.Dump()
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}

func applyColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stderr)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
