// Command flatjson is the file/stdio-facing shell around the engine:
// validate checks that input is well-formed JSON, format re-encodes it in
// this package's canonical form (ascending object key order), and gen
// invokes the static code generator against a source file.
package main

import (
	"io"
	"os"

	"github.com/mcvoid/flatjson"
	flatjsongen "github.com/mcvoid/flatjson/gen"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("flatjson failed")
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flatjson",
		Short: "Validate, format, and generate code for flatjson documents",
	}
	root.AddCommand(newValidateCmd(), newFormatCmd(), newGenCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Decode a document and report whether it is well-formed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			if _, err := flatjson.FromText(text); err != nil {
				log.Error().Err(err).Msg("invalid document")
				return err
			}
			log.Info().Msg("valid")
			return nil
		},
	}
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format [file]",
		Short: "Decode a document and re-encode it in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			v, err := flatjson.FromText(text)
			if err != nil {
				return errors.Wrap(err, "decoding document")
			}
			cmd.Println(flatjson.ToText(v))
			return nil
		},
	}
}

func newGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen <file.go>",
		Short: "Generate Serialize/Visitor implementations for annotated structs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}
			pkg, err := flatjsongen.Parse(path, src)
			if err != nil {
				return err
			}
			out, err := flatjsongen.Generate(pkg)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	}
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", args[0])
	}
	return string(b), nil
}
