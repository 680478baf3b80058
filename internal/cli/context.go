package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tracelens/internal/frame"
	"github.com/mvp-joe/tracelens/internal/source"
)

var (
	contextFile     string
	contextLine     int
	contextSymbol   string
	contextMaxLines int
)

// contextCmd represents the context command
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Extract the function around one source location",
	Long: `Extract the function definition containing a single (file, line, symbol)
lookup, the same operation the MCP code_context tool performs.

Example:
  tracelens context --file src/widget.cpp --line 214 --symbol 'ui::Widget::draw(int)'`,
	RunE: runContext,
}

func init() {
	contextCmd.Flags().StringVar(&contextFile, "file", "", "source file path (required)")
	contextCmd.Flags().IntVar(&contextLine, "line", 0, "1-based line number from the stack frame (required)")
	contextCmd.Flags().StringVar(&contextSymbol, "symbol", "", "symbol text from the stack frame")
	contextCmd.Flags().IntVar(&contextMaxLines, "max-lines", 0, "crop the snippet to at most this many lines")
	contextCmd.MarkFlagRequired("file")
	contextCmd.MarkFlagRequired("line")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.Options()
	if contextMaxLines > 0 {
		opts.MaxSnippetLines = contextMaxLines
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

	result, err := extractor.Context(source.Request{
		Path:   contextFile,
		Line:   contextLine,
		Symbol: frame.ShortName(contextSymbol),
	})
	if err != nil {
		if errors.Is(err, source.ErrFileNotFound) || errors.Is(err, source.ErrMissingLocation) {
			return fmt.Errorf("%s", result.Status)
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "%s\n\n", result.Status)
	fmt.Print(result.Text)
	return nil
}
