// Command flatjsongen is the static generator's command-line entry point:
// it scans a single Go source file for "flatjson:generate"-annotated
// structs and writes a sibling "_flatjson.go" file implementing their
// Serialize/Visitor pair.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mcvoid/flatjson/gen"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("flatjsongen failed")
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatjsongen <file.go>",
		Short: "Generate Serialize/Visitor implementations for annotated structs",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	return cmd
}

func runGenerate(_ *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	pkg, err := gen.Parse(path, src)
	if err != nil {
		return err
	}
	if len(pkg.Records) == 0 {
		log.Warn().Str("file", path).Msg("no flatjson:generate annotations found")
		return nil
	}

	out, err := gen.Generate(pkg)
	if err != nil {
		return err
	}

	outPath := outputPath(path)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", outPath)
	}
	log.Info().Str("file", outPath).Int("records", len(pkg.Records)).Msg("generated")
	return nil
}

func outputPath(path string) string {
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), ".go")
	return filepath.Join(dir, base+"_flatjson.go")
}
