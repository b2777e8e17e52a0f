package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RiskoZoSlovenska/bliks-lang/bliks"
	"github.com/RiskoZoSlovenska/bliks-lang/config"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Compile a script and print its resolved instructions",
	Long: "dump is a read-only diagnostic: it prints a CompiledProgram's\n" +
		"instructions, labels, and jump destinations for inspection. It is\n" +
		"never fed back in; Bliks has no program serialization format.",
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		format := cfg.DumpFormat
		if c.Flags().Changed("format") {
			format = dumpFormat
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		prog, cerr := bliks.Compile(string(source), nil)
		if cerr != nil {
			fmt.Fprintln(os.Stderr, bliks.FormatError(cerr, string(source), args[0]))
			return errSilentExit
		}

		return renderDump(prog, format)
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "json", "dump format: json or yaml")
}

// dumpView is the JSON/YAML-friendly projection of a CompiledProgram; the
// program package's own types are left untagged since they are not meant
// to be serialized.
type dumpView struct {
	Begin        int               `json:"begin" yaml:"begin"`
	Instructions []instructionView `json:"instructions" yaml:"instructions"`
	Labels       map[string][]int  `json:"labels" yaml:"labels"`
	JumpDests    map[int]string    `json:"jump_dests" yaml:"jump_dests"`
}

type instructionView struct {
	Index    int       `json:"index" yaml:"index"`
	FuncName string    `json:"func" yaml:"func"`
	Args     []argView `json:"args" yaml:"args"`
	Pos      int       `json:"pos" yaml:"pos"`
}

type argView struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
	Depth int    `json:"depth,omitempty" yaml:"depth,omitempty"`
}

func renderDump(prog *bliks.CompiledProgram, format string) error {
	view := dumpView{
		Begin:     prog.Begin,
		Labels:    prog.Labels,
		JumpDests: prog.JumpDests,
	}
	for i, ins := range prog.Instructions {
		iv := instructionView{Index: i + 1, FuncName: ins.FuncName, Pos: int(ins.Pos)}
		for _, a := range ins.Args {
			iv.Args = append(iv.Args, argView{Kind: a.Kind.String(), Value: a.Value, Depth: a.Depth})
		}
		view.Instructions = append(view.Instructions, iv)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		out, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		return fmt.Errorf("unknown dump format %q (want json or yaml)", format)
	}
}
