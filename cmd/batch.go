package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/andresmejia3/facewire/internal/codec"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/andresmejia3/facewire/internal/worker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchOpts Options

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every image in a directory to lossless JPEG XL",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBatch(cmd.Context(), batchOpts); err != nil {
			utils.Die("Batch conversion failed", err)
		}
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOpts.InputPath, "input", "i", "", "Directory of source images")
	batchCmd.Flags().StringVarP(&batchOpts.OutputPath, "output", "o", "", "Directory for .jxl files")
	batchCmd.Flags().IntVarP(&batchOpts.NumEngines, "engines", "e", runtime.NumCPU(), "Number of concurrent encoders")
	batchCmd.Flags().BoolVar(&batchOpts.Grayscale, "grayscale", false, "Convert to grayscale before encoding")
	batchCmd.Flags().BoolVar(&batchOpts.Overwrite, "overwrite", false, "Re-encode images whose .jxl output already exists")
	batchCmd.MarkFlagRequired("input")
	batchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(batchCmd)
}

// batchSummary counts batch outcomes.
type batchSummary struct {
	Converted int
	Skipped   int
	Failed    int
	Bytes     int
}

func runBatch(ctx context.Context, opts Options) error {
	entries, err := os.ReadDir(opts.InputPath)
	if err != nil {
		return err
	}
	var tasks []worker.Task
	for _, e := range entries {
		if e.Type().IsRegular() && isRaster(e.Name()) {
			tasks = append(tasks, worker.Task{Path: filepath.Join(opts.InputPath, e.Name())})
		}
	}
	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "⚠️  No images found in %s\n", opts.InputPath)
		return nil
	}
	if err := os.MkdirAll(opts.OutputPath, 0o755); err != nil {
		return err
	}

	collisions := outputCollisions(tasks, opts.OutputPath)
	pool := worker.NewPool(opts.NumEngines, func(ctx context.Context, task worker.Task) worker.Result {
		if err, ok := collisions[task.Path]; ok {
			return worker.Result{Err: err}
		}
		return convertFile(task, opts)
	})
	fmt.Fprintf(os.Stderr, "⚙️  Converting %d images with %d engines\n", len(tasks), pool.Engines())

	bar := progressbar.NewOptions(len(tasks),
		progressbar.OptionSetDescription("🗜️  Encoding"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	summary := summarize(pool.Run(ctx, tasks), func(res worker.Result) {
		bar.Add(1)
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "\n⚠️  %s: %v\n", res.Path, res.Err)
		}
	})
	bar.Finish()

	fmt.Fprintf(os.Stderr, "\n🏁 Batch Complete. Converted %d, skipped %d, failed %d of %d images (%d bytes written).\n",
		summary.Converted, summary.Skipped, summary.Failed, len(tasks), summary.Bytes)
	if err := ctx.Err(); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d images failed", summary.Failed, len(tasks))
	}
	return nil
}

// outputCollisions fails every input whose .jxl name is shared with another
// input (a.png and a.jpg), since neither output could be trusted.
func outputCollisions(tasks []worker.Task, outDir string) map[string]error {
	byOutput := make(map[string][]string)
	for _, task := range tasks {
		out := utils.ReplaceExt(outDir, task.Path, ".jxl")
		byOutput[out] = append(byOutput[out], task.Path)
	}
	collisions := make(map[string]error)
	for out, paths := range byOutput {
		if len(paths) < 2 {
			continue
		}
		for _, p := range paths {
			collisions[p] = fmt.Errorf("%s: %d inputs (%s) map to the same output: %w",
				out, len(paths), strings.Join(paths, ", "), types.ErrInvalidArgument)
		}
	}
	return collisions
}

func summarize(results <-chan worker.Result, each func(worker.Result)) batchSummary {
	var s batchSummary
	for res := range results {
		switch {
		case res.Err != nil:
			s.Failed++
		case res.Output == "":
			s.Skipped++
		default:
			s.Converted++
			s.Bytes += res.Size
		}
		if each != nil {
			each(res)
		}
	}
	return s
}

// convertFile encodes one image. A result with no Output means the file was skipped.
func convertFile(task worker.Task, opts Options) worker.Result {
	out := utils.ReplaceExt(opts.OutputPath, task.Path, ".jxl")
	if !opts.Overwrite {
		if _, err := os.Stat(out); err == nil {
			return worker.Result{}
		}
	}

	buf, err := loadPixels(task.Path)
	if err != nil {
		return worker.Result{Err: err}
	}
	if buf, err = transform(buf, opts, nil); err != nil {
		return worker.Result{Err: err}
	}
	data, err := codec.SerializeImage(types.Image{PixelBuffer: buf})
	if err != nil {
		return worker.Result{Err: err}
	}
	if err := utils.WriteOutput(out, data); err != nil {
		return worker.Result{Err: err}
	}
	return worker.Result{Output: out, Size: len(data)}
}
