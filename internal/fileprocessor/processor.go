// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/pipeline"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, machineOpts options.Machine) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
			_ = closer.Close()
		}
	}()

	pipe := pipeline.New(logger)
	result, err := pipe.Execute(ctx, opts, machineOpts, writer)
	if err != nil {
		return err
	}

	logger.Info("Execution finished",
		log.Int("frames", result.Frames),
		log.Int("cycles", int(result.Cycles)),
		log.Hex("display_hash", result.DisplayHash))
	return nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))
}
