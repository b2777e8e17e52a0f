package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/RiskoZoSlovenska/bliks-lang/bliks"
	"github.com/RiskoZoSlovenska/bliks-lang/config"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/spf13/cobra"
)

// Version information, overridable at build time with:
// go build -ldflags "-X github.com/RiskoZoSlovenska/bliks-lang/cmd/bliks/cmd.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var maxRegisters int
var trace bool

var rootCmd = &cobra.Command{
	Use:   "bliks [file] [arg...]",
	Short: "Run Bliks scripts",
	Long: "Bliks is a small line-oriented scripting language.\n" +
		"With a file argument, bliks compiles and runs it, pre-filling the\n" +
		"machine's input buffer from any trailing arguments. With no file,\n" +
		"bliks drops into a prompt that compiles and runs one line at a time.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlagOverrides(c, cfg)

		if len(args) == 0 {
			return runREPL(cfg, nil)
		}
		return runFile(cfg, args[0], args[1:])
	},
}

// applyFlagOverrides layers any explicitly-passed persistent flags on top
// of the loaded config, which otherwise supplies the defaults.
func applyFlagOverrides(c *cobra.Command, cfg *config.Config) {
	if c.Flags().Changed("max-registers") {
		cfg.MaxRegisters = maxRegisters
	}
	if c.Flags().Changed("trace") {
		cfg.Trace = trace
	}
}

func init() {
	rootCmd.SetVersionTemplate("bliks {{.Version}}\n")
	rootCmd.PersistentFlags().IntVar(&maxRegisters, "max-registers", 0,
		"maximum register index allowed (0 = unbounded)")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false,
		"print each executed instruction to stderr before running it")
	rootCmd.AddCommand(runCmd, dumpCmd)
}

// Execute runs the root command, returning any error for main to report.
// An errSilentExit, already reported, exits with status 1 directly.
func Execute() error {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
	err := rootCmd.Execute()
	if err == errSilentExit {
		os.Exit(1)
	}
	return err
}

// runFile compiles and runs a script file to completion, streaming its
// output to stdout and pre-filling its buffer from extraArgs.
func runFile(cfg *config.Config, path string, extraArgs []string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	m, err := bliks.MachineFromSource(string(source), nil, cfg.MaxRegisters)
	if err != nil {
		fmt.Fprintln(os.Stderr, bliks.FormatError(err, string(source), path))
		return errSilentExit
	}
	for _, a := range extraArgs {
		m.Push(a)
	}

	return drive(m, string(source), path, cfg.Trace)
}

// runREPL reads one line at a time from stdin, compiling and running each
// independently with out pre-filled from replArgs.
func runREPL(cfg *config.Config, replArgs []string) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "bliks> ")
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()

		m, err := bliks.MachineFromSource(line, nil, cfg.MaxRegisters)
		if err != nil {
			fmt.Fprintln(os.Stderr, bliks.FormatError(err, line, "<repl>"))
			continue
		}
		for _, a := range replArgs {
			m.Push(a)
		}

		if err := drive(m, line, "<repl>", cfg.Trace); err != nil && err != errSilentExit {
			return err
		}
	}
}

// errSilentExit signals that an error was already printed and Execute
// should just exit nonzero without printing it again.
var errSilentExit = fmt.Errorf("bliks: execution failed")

// drive steps m to completion (or suspension on missing input, which it
// treats as end of available input and halts), printing each output line.
// When trace is set, it also logs each instruction to stderr immediately
// before executing it.
func drive(m *bliks.Machine, source, name string, traceOn bool) error {
	for {
		if traceOn {
			if idx, funcName, ok := m.PeekInstruction(); ok {
				fmt.Fprintf(os.Stderr, "trace: #%d %s\n", idx, funcName)
			}
		}

		running, out, err := m.Step()
		if err != nil {
			fmt.Fprintln(os.Stderr, bliks.FormatError(err, source, name))
			return errSilentExit
		}
		if !running {
			return nil
		}
		switch v := out.(type) {
		case program.NeedInput:
			return nil
		case nil:
			// no output this step
		default:
			fmt.Println(v)
		}
	}
}
