package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/vm-abi/abijson"
	"github.com/wippyai/vm-abi/call"
	"github.com/wippyai/vm-abi/tokenizer"
	"github.com/wippyai/vm-abi/transcoder"
	"github.com/wippyai/vm-abi/witabi"
)

func (a *app) encodeCmd() *cobra.Command {
	var typeExpr, value string
	var wit bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a value and print the resolved bytes as hex",
		Example: `  abicodec encode --type u32 --value 4294967295
  abicodec encode --type 'Vec<u64>' --value '[1,2,3]' --offset 150
  abicodec encode --wit --type string --value '"hi"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseType(typeExpr, wit)
			if err != nil {
				return err
			}
			tok, err := tokenizer.Tokenize(p, value)
			if err != nil {
				return err
			}
			ub, err := transcoder.NewEncoder().EncodeSingle(tok)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ub.Resolve(a.offset(cmd, "offset"))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeExpr, "type", "t", "", "Type expression, e.g. 'struct{u64,bool}'")
	cmd.Flags().StringVar(&value, "value", "", "Value in token syntax")
	cmd.Flags().Uint64("offset", 0, "Address the arguments are resolved at")
	cmd.Flags().BoolVar(&wit, "wit", false, "Interpret --type as a WIT primitive type name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var typeExpr, data string
	var resolved, wit bool
	var base uint64

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode hex bytes into a value",
		Example: `  abicodec decode --type u32 --data 0x00000000ffffffff
  abicodec decode --type 'Vec<u64>' --resolved --base 150 --data ...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseType(typeExpr, wit)
			if err != nil {
				return err
			}
			raw, err := decodeHex(data)
			if err != nil {
				return err
			}

			var tok transcoder.Token
			if resolved {
				toks, err := a.decoder().DecodeResolved([]transcoder.ParamType{p}, raw, base)
				if err != nil {
					return err
				}
				tok = toks[0]
			} else {
				tok, err = a.decoder().DecodeSingle(p, raw)
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeExpr, "type", "t", "", "Type expression")
	cmd.Flags().StringVar(&data, "data", "", "Hex bytes, optionally 0x-prefixed")
	cmd.Flags().BoolVar(&resolved, "resolved", false, "Follow heap pointers in a resolved layout")
	cmd.Flags().Uint64Var(&base, "base", 0, "Address the data was resolved at (with --resolved)")
	cmd.Flags().BoolVar(&wit, "wit", false, "Interpret --type as a WIT primitive type name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) selectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "selector <signature>",
		Short:   "Print the 4-byte selector of a canonical signature",
		Example: "  abicodec selector 'entry_one(u32)'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := call.Selector(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "0x%s\n", hex.EncodeToString(sel[:]))
			return nil
		},
	}
}

func (a *app) functionsCmd() *cobra.Command {
	var abiPath string

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the functions of a JSON program interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := abijson.Load(abiPath)
			if err != nil {
				return err
			}
			for _, fn := range prog.Functions() {
				line, err := describe(fn)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", fn.Name, err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "Path to the JSON program interface")
	_ = cmd.MarkFlagRequired("abi")
	return cmd
}

func (a *app) callCmd() *cobra.Command {
	var abiPath, name string
	var argv []string

	cmd := &cobra.Command{
		Use:     "call",
		Short:   "Build call data for a function",
		Example: "  abicodec call --abi wallet.json --func deposit --arg '[1,2]' --arg '(1,\"memo\")'",
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := abijson.Load(abiPath)
			if err != nil {
				return err
			}
			fn, err := prog.Function(name)
			if err != nil {
				return err
			}
			c, err := buildCall(fn, argv, a.offset(cmd, "offset"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "Path to the JSON program interface")
	cmd.Flags().StringVar(&name, "func", "", "Function name")
	cmd.Flags().StringArrayVar(&argv, "arg", nil, "Argument value in token syntax, repeated per parameter")
	cmd.Flags().Uint64("offset", 0, "Address the arguments are resolved at")
	_ = cmd.MarkFlagRequired("abi")
	_ = cmd.MarkFlagRequired("func")
	return cmd
}

// buildCall tokenizes argv against fn's inputs and encodes the call.
func buildCall(fn *abijson.Function, argv []string, offset uint64) (call.Call, error) {
	inputs, err := fn.Inputs()
	if err != nil {
		return call.Call{}, err
	}
	if len(argv) != len(inputs) {
		return call.Call{}, fmt.Errorf("%s takes %d arguments, got %d", fn.Name, len(inputs), len(argv))
	}
	tokens := make([]transcoder.Token, len(inputs))
	for i, in := range inputs {
		tok, err := tokenizer.Tokenize(in, argv[i])
		if err != nil {
			return call.Call{}, fmt.Errorf("argument %d: %w", i, err)
		}
		tokens[i] = tok
	}
	return fn.Encode(tokens, offset)
}

// describe renders "name(a: T, ...) -> R  0xSELECTOR".
func describe(fn *abijson.Function) (string, error) {
	inputs, err := fn.Inputs()
	if err != nil {
		return "", err
	}
	out, err := fn.Output()
	if err != nil {
		return "", err
	}
	names := fn.InputNames()
	params := make([]string, len(inputs))
	for i, in := range inputs {
		params[i] = names[i] + ": " + in.String()
	}
	sel := call.Selector(call.Signature(fn.Name, inputs))
	return fmt.Sprintf("%s(%s) -> %s  0x%s", fn.Name, strings.Join(params, ", "), out.String(), hex.EncodeToString(sel[:])), nil
}

func parseType(expr string, wit bool) (transcoder.ParamType, error) {
	if wit {
		return witabi.Parse(expr)
	}
	return tokenizer.ParseType(expr)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}
