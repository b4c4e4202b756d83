package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/vm-abi/call"
	"github.com/wippyai/vm-abi/config"
	"github.com/wippyai/vm-abi/memory"
	"github.com/wippyai/vm-abi/transcoder"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands.
type app struct {
	cfgPath string
	verbose bool
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	root := &cobra.Command{
		Use:   "abicodec",
		Short: "Encode and decode VM contract call arguments",
		Long: `abicodec converts between textual values and the word-aligned binary
encoding used for contract calls: 8-byte big-endian words with heap data
appended after the inline section.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "TOML file with decoder limits and encoder defaults")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable development logging")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.selectorCmd(),
		a.functionsCmd(),
		a.callCmd(),
		a.interactiveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.cfgPath != "" {
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	log := zap.NewNop()
	if a.verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		log = dev
	}
	transcoder.SetLogger(log)
	call.SetLogger(log)
	memory.SetLogger(log)
	return nil
}

func (a *app) decoder() *transcoder.Decoder {
	return transcoder.NewDecoder(a.cfg.DecoderConfig())
}

// offset returns the --offset flag when set, the configured base otherwise.
func (a *app) offset(cmd *cobra.Command, name string) uint64 {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetUint64(name)
		return v
	}
	return a.cfg.Encoder.BaseOffset
}
