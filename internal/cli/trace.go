package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/mvp-joe/tracelens/internal/frame"
	"github.com/mvp-joe/tracelens/internal/source"
)

var (
	traceMaxLines int
	traceQuiet    bool
	traceJobs     int
)

// progressBarThreshold is the frame count below which a progress bar is
// more noise than help.
const progressBarThreshold = 8

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace [file]",
	Short: "Resolve every frame of a stack trace to source snippets",
	Long: `Parse a stack trace and print a source snippet for each frame that carries
file and line information. The trace is read from the given file, or from
stdin when no file is given.

Recognized frame formats: .NET ("at Ns.Type.Method(...) in file:line N"),
WinDbg/Visual Studio native ("module!sym+0x1a [file @ N]"),
gdb/lldb ("#3 0x... in sym (...) at file:N") and generic "file:N" references.

Example:
  tracelens trace crash.txt
  dotnet run 2>&1 | tracelens trace`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().IntVar(&traceMaxLines, "max-lines", 0, "crop each snippet to at most this many lines")
	traceCmd.Flags().BoolVarP(&traceQuiet, "quiet", "q", false, "suppress progress output")
	traceCmd.Flags().IntVar(&traceJobs, "jobs", 4, "number of frames resolved concurrently")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	text, err := readTraceInput(args)
	if err != nil {
		return err
	}

	report := frame.Parse(text)
	if len(report.Frames) == 0 {
		return fmt.Errorf("no stack frames recognized in input")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.Options()
	if traceMaxLines > 0 {
		opts.MaxSnippetLines = traceMaxLines
	}

	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}
	extractor, err := source.NewExtractor(resolver, opts)
	if err != nil {
		return err
	}
	defer extractor.Close()

	bar := newTraceProgress(len(report.Frames))

	// Frames resolve independently; the extractor and its cache are safe
	// for concurrent use. Results keep frame order.
	results := make([]source.Result, len(report.Frames))
	var g errgroup.Group
	g.SetLimit(jobLimit())
	for i, f := range report.Frames {
		g.Go(func() error {
			// Extraction never hard-fails: missing location and missing
			// file both leave a status explaining the gap.
			results[i], _ = extractor.Context(source.Request{
				Path:   f.Path,
				Line:   f.Line,
				Symbol: frame.ShortName(f.Symbol),
			})
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "report %s: %d frames\n\n", report.ID, len(report.Frames))
	}
	printTraceReport(report, results)
	return nil
}

func readTraceInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read trace file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read trace from stdin: %w", err)
	}
	return string(data), nil
}

func jobLimit() int {
	if traceJobs < 1 {
		return 1
	}
	return traceJobs
}

// newTraceProgress returns a progress bar when it would actually be seen:
// stderr is a terminal, quiet mode is off, and the trace is long enough to
// take a moment.
func newTraceProgress(frames int) *progressbar.ProgressBar {
	if traceQuiet || frames < progressBarThreshold || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(frames,
		progressbar.OptionSetDescription("Resolving frames"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
}

func printTraceReport(report *frame.Report, results []source.Result) {
	for i, f := range report.Frames {
		r := results[i]
		fmt.Printf("--- frame %d: %s", f.Index, frameHeading(f))
		fmt.Println()
		fmt.Printf("    %s\n", r.Status)
		if r.Text != "" {
			fmt.Println()
			fmt.Print(r.Text)
		}
		fmt.Println()
	}
}

func frameHeading(f frame.Frame) string {
	heading := f.Symbol
	if heading == "" {
		heading = "(unknown symbol)"
	}
	if f.Module != "" {
		heading = f.Module + "!" + heading
	}
	if f.Path != "" {
		heading += fmt.Sprintf(" (%s:%d)", f.Path, f.Line)
	}
	return heading
}
