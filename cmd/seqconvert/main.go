// Command seqconvert converts genetic sequence files between formats.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/FocuswithJustin/seqconvert/core/convert"
	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/sqlite"
	"github.com/FocuswithJustin/seqconvert/internal/api"
	"github.com/FocuswithJustin/seqconvert/internal/embedded"
	"github.com/FocuswithJustin/seqconvert/internal/journal"
	"github.com/FocuswithJustin/seqconvert/internal/logging"
	"github.com/FocuswithJustin/seqconvert/internal/report"
)

const version = "0.4.0"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
)

// CLI defines the command-line interface for seqconvert.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" env:"SEQCONVERT_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json" env:"SEQCONVERT_LOG_FORMAT"`
	NoColor   bool   `name:"no-color" help:"Disable coloured output" env:"NO_COLOR"`

	Convert ConvertCmd   `cmd:"" help:"Convert a file, or every file of a directory"`
	Formats FormatsCmd   `cmd:"" help:"List supported formats"`
	Journal JournalGroup `cmd:"" help:"Conversion journal operations"`
	Serve   ServeCmd     `cmd:"" help:"Start the REST API server"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// ConvertCmd converts one file, or every file of a directory when the
// input is a directory. For directories the output is a pattern: "#" is
// replaced by each source name without its extension, otherwise the
// output is a directory.
type ConvertCmd struct {
	Input  string `arg:"" help:"Source file, directory, or - for stdin"`
	Output string `arg:"" help:"Destination file, pattern, or - for stdout"`

	From                string `help:"Source format name (default: from the extension)" env:"SEQCONVERT_FROM"`
	To                  string `help:"Destination format name (default: from the extension)" env:"SEQCONVERT_TO"`
	AllowEmptySequences bool   `help:"Keep records with an empty sequence" env:"SEQCONVERT_ALLOW_EMPTY_SEQUENCES"`
	NoAutomaticRenaming bool   `help:"Keep identifiers verbatim instead of building and uniquifying them" env:"SEQCONVERT_NO_AUTOMATIC_RENAMING"`
	PreserveSpaces      bool   `help:"Keep space characters inside sequences" env:"SEQCONVERT_PRESERVE_SPACES"`
	Journal             string `help:"Record the run in this SQLite journal" type:"path" env:"SEQCONVERT_JOURNAL"`
	Report              string `help:"Write a JSON or YAML report (by extension)" type:"path"`
}

func (c *ConvertCmd) options() formats.Options {
	opts := formats.DefaultOptions()
	opts.AllowEmptySequences = c.AllowEmptySequences
	opts.AutomaticRenaming = !c.NoAutomaticRenaming
	opts.PreserveSpaces = c.PreserveSpaces
	return opts
}

func (c *ConvertCmd) Run() error {
	ctx := context.Background()
	opts := c.options()

	var (
		j     *journal.Journal
		runID string
	)
	if c.Journal != "" {
		var err error
		if j, err = journal.Open(c.Journal); err != nil {
			return err
		}
		defer j.Close()
		run, err := j.StartRun(ctx, c.Input, c.Output, c.From, c.To, opts)
		if err != nil {
			return err
		}
		runID = run.ID
	}

	batch, err := c.convert(ctx, opts)
	if batch == nil {
		return err
	}

	if j != nil {
		for _, rep := range batch.Files {
			if jerr := j.RecordFile(ctx, runID, rep); jerr != nil {
				return jerr
			}
		}
		if jerr := j.FinishRun(ctx, runID); jerr != nil {
			return jerr
		}
	}
	if c.Report != "" {
		if rerr := report.WriteFile(c.Report, report.FromBatch(runID, batch)); rerr != nil {
			return rerr
		}
	}
	return err
}

// convert runs the conversion and prints each file's outcome. A nil batch
// means nothing was attempted.
func (c *ConvertCmd) convert(ctx context.Context, opts formats.Options) (*convert.BatchReport, error) {
	if info, err := os.Stat(c.Input); err == nil && info.IsDir() {
		return convert.Directory(c.Input, c.Output, c.From, c.To, opts, func(done, total int, rep *convert.Report) {
			logging.Info("batch progress", "done", done, "total", total, "source", rep.Source)
			printReport(rep)
		})
	}

	start := time.Now()
	logging.ConversionStarted(ctx, c.Input, c.Output, c.From, c.To)
	rep, err := convert.File(c.Input, c.Output, c.From, c.To, opts)
	if rep == nil {
		return nil, err
	}
	if err != nil {
		logging.ConversionFailed(ctx, c.Input, err)
	} else {
		logging.ConversionFinished(ctx, c.Input, rep.RecordsWritten, rep.Skipped, len(rep.Warnings), time.Since(start))
	}
	printReport(rep)

	batch := &convert.BatchReport{Files: []*convert.Report{rep}}
	if err != nil {
		batch.Failed = 1
	}
	return batch, err
}

// printReport writes warnings and errors to stderr. The summary line is
// skipped when converting to stdout.
func printReport(rep *convert.Report) {
	for _, w := range rep.Warnings {
		warnColor.Fprintf(stderr, "warning: %s: %s\n", rep.Source, w.Message)
	}
	if rep.Error != "" {
		errColor.Fprintf(stderr, "error: %s\n", rep.Error)
		return
	}
	if rep.Destination != "-" {
		okColor.Fprintf(stderr, "%s -> %s: %d records (%s to %s)\n",
			rep.Source, rep.Destination, rep.RecordsWritten, rep.InFormat, rep.OutFormat)
	}
}

// FormatsCmd lists the registered formats.
type FormatsCmd struct{}

func (c *FormatsCmd) Run() error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEXTENSIONS\tREAD\tWRITE")
	for _, h := range formats.List() {
		d := h.Descriptor()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, strings.Join(d.Extensions, " "), yesNo(d.CanRead), yesNo(d.CanWrite))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// JournalGroup contains journal operations.
type JournalGroup struct {
	List JournalListCmd `cmd:"" help:"List recent conversion runs"`
}

// JournalListCmd prints recent runs of a journal.
type JournalListCmd struct {
	Journal string `help:"Journal database" type:"existingfile" required:"" env:"SEQCONVERT_JOURNAL"`
	Limit   int    `help:"Number of runs to show" default:"20"`
	Files   bool   `help:"Also list the files of each run"`
}

func (c *JournalListCmd) Run() error {
	j, err := journal.Open(c.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := context.Background()
	runs, err := j.Runs(ctx, c.Limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSOURCE\tDESTINATION\tFILES\tFAILED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", run.ID, run.StartedAt.Local().Format(time.DateTime),
			run.Source, run.Destination, run.Files, run.Failed)
		if !c.Files {
			continue
		}
		files, err := j.Files(ctx, run.ID)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(tw, "\t\t  %s\t%s\t%s\t\n", f.Source, f.Destination, f.Status)
		}
	}
	return tw.Flush()
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port           int           `help:"HTTP server port" default:"8080" env:"SEQCONVERT_PORT"`
	MaxBody        int64         `name:"max-body" help:"Largest accepted request body in bytes" default:"33554432" env:"SEQCONVERT_MAX_BODY"`
	AllowedOrigins []string      `name:"allowed-origin" help:"Allowed CORS and WebSocket origins" env:"SEQCONVERT_ALLOWED_ORIGINS"`
	CacheSize      int           `name:"cache-size" help:"Memoized conversion results (negative disables)" default:"64" env:"SEQCONVERT_CACHE_SIZE"`
	CacheTTL       time.Duration `name:"cache-ttl" help:"Lifetime of a memoized result" default:"10m" env:"SEQCONVERT_CACHE_TTL"`
}

func (c *ServeCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := api.New(api.Config{
		Port:           c.Port,
		MaxBodyBytes:   c.MaxBody,
		AllowedOrigins: c.AllowedOrigins,
		Version:        version,
		CacheSize:      c.CacheSize,
		CacheTTL:       c.CacheTTL,
	})
	return srv.ListenAndServe(ctx)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "seqconvert version %s (sqlite: %s, %s)\n", version, info.DriverType, info.Package)
	return nil
}

// exitCode maps the error of a command onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errors.ErrInvalidInput), errors.Is(err, errors.ErrFormatUnknown),
		errors.Is(err, errors.ErrUnsupportedDirection):
		return 2
	}
	return 1
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("seqconvert"),
		kong.Description("Convert genetic sequence files between formats"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	color.NoColor = color.NoColor || CLI.NoColor
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	embedded.Announce()

	if err := ctx.Run(); err != nil {
		var batch *errors.BatchError
		if !errors.As(err, &batch) {
			errColor.Fprintf(stderr, "seqconvert: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}
