package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/unismart/planner-api/internal/dto"
	"github.com/unismart/planner-api/internal/schemas"
	"github.com/unismart/planner-api/internal/service"
	"github.com/unismart/planner-api/pkg/export"
)

type generateOptions struct {
	requests []string
	outDir   string
	format   string
	parallel int
}

// generateOutput is one JSON line of stdout output.
type generateOutput struct {
	Request string `json:"request"`
	*dto.GenerateSchedulesResponse
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ranked schedules for one or more request files",
		Long: `Reads generate-schedules request documents, validates them against the request
schema and writes the ranked options for each, in the order the files were given.

Without --out, results are printed to stdout as one JSON object per line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.requests, "request", "r", nil, "Request JSON file (repeatable)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Directory for one output file per request")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json, csv or pdf")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 4, "Requests generated concurrently")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	format := strings.ToLower(opts.format)
	var renderer export.Renderer
	switch format {
	case "json":
	case "csv", "pdf":
		r, err := export.ForFormat(format)
		if err != nil {
			return err
		}
		renderer = r
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if format == "pdf" && opts.outDir == "" {
		return fmt.Errorf("pdf output requires --out")
	}
	if opts.parallel < 1 {
		opts.parallel = 1
	}

	reqs := make([]dto.GenerateSchedulesRequest, len(opts.requests))
	for i, path := range opts.requests {
		req, err := readRequest(path)
		if err != nil {
			return err
		}
		reqs[i] = req
	}

	ctx := cmd.Context()
	env, err := setup(ctx, root)
	if err != nil {
		return err
	}
	defer env.Close()

	results := make([]*dto.GenerateSchedulesResponse, len(reqs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallel)
	for i := range reqs {
		i := i
		g.Go(func() error {
			resp, err := env.generator.Generate(gCtx, reqs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", opts.requests[i], err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.outDir == "" {
		return writeStdout(cmd.OutOrStdout(), opts.requests, results, renderer)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for i, resp := range results {
		name, data, err := encodeResult(resp, format, renderer)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.requests[i], err)
		}
		target := filepath.Join(opts.outDir, outputName(opts.requests[i], name))
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %d options)\n", opts.requests[i], target, resp.Status, len(resp.Options))
	}
	return nil
}

// readRequest checks a request document against the schema before decoding it.
func readRequest(path string) (dto.GenerateSchedulesRequest, error) {
	var req dto.GenerateSchedulesRequest
	if err := schemas.ValidateGenerateRequestFile(path); err != nil {
		return req, err
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request file: %w", err)
	}
	if err := json.Unmarshal(doc, &req); err != nil {
		return req, fmt.Errorf("%s: decode request: %w", path, err)
	}
	return req, nil
}

func writeStdout(w io.Writer, paths []string, results []*dto.GenerateSchedulesResponse, renderer export.Renderer) error {
	if renderer != nil {
		for _, resp := range results {
			data, err := renderer.Render(service.BuildScheduleTable(resp))
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	for i, resp := range results {
		if resp.Options == nil {
			resp.Options = []dto.ScheduleOptionResponse{}
		}
		if err := enc.Encode(generateOutput{Request: paths[i], GenerateSchedulesResponse: resp}); err != nil {
			return err
		}
	}
	return nil
}

func encodeResult(resp *dto.GenerateSchedulesResponse, format string, renderer export.Renderer) (string, []byte, error) {
	if renderer == nil {
		if resp.Options == nil {
			resp.Options = []dto.ScheduleOptionResponse{}
		}
		data, err := json.MarshalIndent(resp, "", "  ")
		return format, data, err
	}
	data, err := renderer.Render(service.BuildScheduleTable(resp))
	return renderer.Extension(), data, err
}

// outputName maps requests/alice.json to alice.<ext>.
func outputName(requestPath, ext string) string {
	base := filepath.Base(requestPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + ext
}
