// Command rv32i runs a flash image through the RV32I interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jorgecmartins/riscv-emulator/disasm"
	"github.com/Jorgecmartins/riscv-emulator/isa"
	"github.com/Jorgecmartins/riscv-emulator/loader"
	"github.com/Jorgecmartins/riscv-emulator/vm"
)

// traceEnvVar, when set to any non-empty value, turns on the per-instruction
// trace stream to stderr. Its format carries no compatibility guarantee, so
// it's gated behind an environment variable rather than a CLI flag.
const traceEnvVar = "RV32I_TRACE"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "rv32i <flash-image>",
		Short:         "Interpret a raw RV32I flash image",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
}

func run(path string) error {
	image, err := loader.Load(path)
	if err != nil {
		return err
	}

	var opts []vm.Option
	if os.Getenv(traceEnvVar) != "" {
		opts = append(opts, vm.WithTrace(func(pc uint32, inst isa.Instruction) {
			fmt.Fprintln(os.Stderr, disasm.Trace(pc, inst))
		}))
	}

	m, err := vm.New(image, opts...)
	if err != nil {
		return err
	}

	for {
		result := m.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Exited {
			os.Exit(int(result.ExitCode))
		}
	}
}
