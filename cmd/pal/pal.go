package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Santi-I-Guess/final-project/config"
	"github.com/Santi-I-Guess/final-project/cpu"
	"github.com/Santi-I-Guess/final-project/debugger"
	"github.com/Santi-I-Guess/final-project/emulator"
	"github.com/Santi-I-Guess/final-project/internal"
	palio "github.com/Santi-I-Guess/final-project/io"
)

// pal holds the command line state shared by all subcommands.
type pal struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	output    string
	input     string
	optimize  bool
	saveTemps bool
	binary    bool
	seed      int64
	verbose   bool
	colorMode string

	cfg *config.Config
}

func newPal(stdin io.Reader, stdout, stderr io.Writer) *pal {
	return &pal{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		colorMode: config.COLOR_AUTO,
	}
}

// color returns the effective color mode.
func (p *pal) color() string {
	if p.cfg != nil {
		return p.cfg.Color
	}
	return p.colorMode
}

// settings merges the project file governing source with the flags the
// user actually set.
func (p *pal) settings(cmd *cobra.Command, source string) (err error) {
	cfg, path, err := config.Find(source)
	if err != nil {
		return
	}

	flags := cmd.Flags()
	if flags.Changed("optimize") {
		cfg.Optimize = p.optimize
	}
	if flags.Changed("verbose") {
		cfg.Verbose = p.verbose
	}
	if flags.Changed("seed") {
		cfg.Seed = p.seed
	}
	if flags.Changed("save-temps") {
		cfg.SaveTemps = p.saveTemps
	}
	if flags.Changed("color") {
		cfg.Color = p.colorMode
	}

	switch cfg.Color {
	case config.COLOR_AUTO, config.COLOR_ALWAYS, config.COLOR_NEVER:
	default:
		err = fmt.Errorf("%w: %q", config.ErrColor, cfg.Color)
		return
	}

	if cfg.Verbose && path != "" {
		log.Printf("pal: using %v", path)
	}

	p.cfg = cfg
	return
}

// tempName returns the side file name for a --save-temps artifact.
func tempName(source string, kind string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + "." + kind + ".yaml"
}

// saveYAML writes value to path as YAML.
func saveYAML(path string, value any) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	err = enc.Encode(value)
	if err == nil {
		err = enc.Close()
	}

	return errors.Join(err, out.Close())
}

// assemble reads, assembles and optionally optimizes source.
func (p *pal) assemble(source string) (prog *cpu.Program, err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	tokens, err := cpu.Tokenize(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
		return
	}

	asm := &cpu.Assembler{Verbose: p.cfg.Verbose}
	for key, value := range emulator.NewEmulator().Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Assemble(tokens)

	if p.cfg.SaveTemps {
		terr := saveYAML(tempName(source, "tokens"), tokens)
		if terr == nil {
			terr = saveYAML(tempName(source, "labels"), map[string]any{
				"offset": asm.Offset,
				"labels": asm.Label,
			})
		}
		err = errors.Join(err, terr)
	}

	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
		return
	}

	return p.optimized(prog)
}

// optimized applies the peephole optimizer, if enabled.
func (p *pal) optimized(prog *cpu.Program) (out *cpu.Program, err error) {
	if !p.cfg.Optimize {
		return prog, nil
	}

	opt := &cpu.Optimizer{Verbose: p.cfg.Verbose}
	return opt.Optimize(prog)
}

// load returns the program image for source, either assembled or read
// from a binary image.
func (p *pal) load(source string) (prog *cpu.Program, err error) {
	if !p.binary {
		return p.assemble(source)
	}

	rom, err := palio.LoadRom(source)
	if err != nil {
		return
	}

	return p.optimized(&cpu.Program{Words: rom.Data})
}

// machine creates an emulator with the program loaded.
func (p *pal) machine(prog *cpu.Program, input io.Reader) (emu *emulator.Emulator, err error) {
	emu = emulator.NewEmulator()
	emu.Verbose = p.cfg.Verbose
	emu.Cpu.Seed = p.cfg.Seed
	emu.Program = prog
	emu.Tape.Input = input
	emu.Tape.Output = p.stdout

	err = emu.Reset()
	return
}

// console opens the program's console input.
func (p *pal) console() (input io.Reader, closer func(), err error) {
	closer = func() {}
	switch p.input {
	case "":
		input = strings.NewReader("")
	case "-":
		input = p.stdin
	default:
		var inf *os.File
		inf, err = os.Open(p.input)
		if err != nil {
			return
		}
		input = inf
		closer = func() { inf.Close() }
	}
	return
}

func (p *pal) doAsm(cmd *cobra.Command, args []string) (err error) {
	source := args[0]
	if err = p.settings(cmd, source); err != nil {
		return
	}

	prog, err := p.assemble(source)
	if err != nil {
		return
	}

	output := p.output
	if len(output) == 0 {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".bin"
	}

	rom := &palio.Rom{Data: prog.Words}
	return rom.Save(output)
}

func (p *pal) doCheck(cmd *cobra.Command, args []string) (err error) {
	source := args[0]
	if err = p.settings(cmd, source); err != nil {
		return
	}

	_, err = p.assemble(source)
	if err != nil {
		return
	}

	_, err = fmt.Fprintln(p.stdout, f("%v: ok", source))
	return
}

func (p *pal) doRun(cmd *cobra.Command, args []string) (err error) {
	source := args[0]
	if err = p.settings(cmd, source); err != nil {
		return
	}

	prog, err := p.load(source)
	if err != nil {
		return
	}

	input, closer, err := p.console()
	if err != nil {
		return
	}
	defer closer()

	emu, err := p.machine(prog, input)
	if err != nil {
		return
	}

	err = emu.Run()
	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
	}
	return
}

func (p *pal) doDebug(cmd *cobra.Command, args []string) (err error) {
	source := args[0]
	if err = p.settings(cmd, source); err != nil {
		return
	}

	prog, err := p.load(source)
	if err != nil {
		return
	}

	input, closer, err := p.console()
	if err != nil {
		return
	}
	defer closer()

	emu, err := p.machine(prog, input)
	if err != nil {
		return
	}

	dbg := debugger.NewDebugger(emu)
	dbg.Verbose = p.cfg.Verbose
	if file, ok := p.stdout.(*os.File); ok {
		dbg.Color = useColor(p.cfg.Color, file.Fd())
	} else {
		dbg.Color = p.cfg.Color == config.COLOR_ALWAYS
	}

	return dbg.Run(p.stdin, p.stdout)
}

func (p *pal) doDis(cmd *cobra.Command, args []string) (err error) {
	source := args[0]
	if err = p.settings(cmd, source); err != nil {
		return
	}

	prog, err := p.load(source)
	if err != nil {
		return
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	return debugger.Disassemble(p.stdout, emu, -1)
}

func (p *pal) doDefines(cmd *cobra.Command, args []string) (err error) {
	for key, value := range internal.IterSeq2Sorted(emulator.NewEmulator().Defines()) {
		_, err = fmt.Fprintf(p.stdout, "%v = %v\n", key, value)
		if err != nil {
			return
		}
	}
	return
}

// rootCommand builds the command tree.
func (p *pal) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pal",
		Short: "PAL assembler, optimizer, emulator and debugger",
		Long: `Pal assembles PAL source into a flat image of 16 bit words, and runs
the image on the PAL register machine, either headless or under an
interactive debugger.

Settings are read from the nearest pal.yaml (or pal.yml) found by walking
up from the source file's directory. Flags override the file.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(p.stdin)
	root.SetOut(p.stdout)
	root.SetErr(p.stderr)

	persistent := root.PersistentFlags()
	persistent.BoolVarP(&p.verbose, "verbose", "v", false, "verbose mode")
	persistent.StringVar(&p.colorMode, "color", config.COLOR_AUTO, "colored diagnostics: auto, always or never")

	optimize := func(cmd *cobra.Command) {
		cmd.Flags().BoolVarP(&p.optimize, "optimize", "O", false, "run the peephole optimizer")
	}
	binary := func(cmd *cobra.Command) {
		cmd.Flags().BoolVarP(&p.binary, "binary", "b", false, "FILE is a binary image, not source")
	}

	asmCmd := &cobra.Command{
		Use:   "asm FILE",
		Short: "Assemble PAL source into a binary image",
		Args:  cobra.ExactArgs(1),
		RunE:  p.doAsm,
	}
	asmCmd.Flags().StringVarP(&p.output, "output", "o", "", "output image (default FILE with a .bin extension)")
	asmCmd.Flags().BoolVar(&p.saveTemps, "save-temps", false, "write the tokens and labels as YAML next to FILE")
	optimize(asmCmd)

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Assemble PAL source, and only report errors",
		Args:  cobra.ExactArgs(1),
		RunE:  p.doCheck,
	}
	checkCmd.Flags().BoolVar(&p.saveTemps, "save-temps", false, "write the tokens and labels as YAML next to FILE")

	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program headless",
		Args:  cobra.ExactArgs(1),
		RunE:  p.doRun,
	}
	runCmd.Flags().Int64Var(&p.seed, "seed", 0, "seed of the RAND instruction")
	runCmd.Flags().StringVarP(&p.input, "input", "i", "-", "console input file, - for stdin")
	optimize(runCmd)
	binary(runCmd)

	debugCmd := &cobra.Command{
		Use:   "debug FILE",
		Short: "Run a program under the interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE:  p.doDebug,
	}
	debugCmd.Flags().Int64Var(&p.seed, "seed", 0, "seed of the RAND instruction")
	debugCmd.Flags().StringVarP(&p.input, "input", "i", "", "console input file")
	optimize(debugCmd)
	binary(debugCmd)

	disCmd := &cobra.Command{
		Use:   "dis FILE",
		Short: "Disassemble a program",
		Args:  cobra.ExactArgs(1),
		RunE:  p.doDis,
	}
	optimize(disCmd)
	binary(disCmd)

	definesCmd := &cobra.Command{
		Use:   "defines",
		Short: "List the constants available to $() expressions",
		Args:  cobra.NoArgs,
		RunE:  p.doDefines,
	}

	root.AddCommand(asmCmd, checkCmd, runCmd, debugCmd, disCmd, definesCmd)
	return root
}
