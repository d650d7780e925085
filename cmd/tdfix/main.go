package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phyten/tdfix/internal/config"
	"github.com/phyten/tdfix/internal/engine"
	engineopts "github.com/phyten/tdfix/internal/engine/opts"
	"github.com/phyten/tdfix/internal/output"
	"github.com/phyten/tdfix/internal/termcolor"
	"github.com/phyten/tdfix/internal/textutil"
	"github.com/phyten/tdfix/internal/util"
)

const messageColumnWidth = 100

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	args := os.Args[1:]
	fix := false
	if len(args) > 0 {
		switch args[0] {
		case "fix":
			fix = true
			args = args[1:]
		case "scan":
			args = args[1:]
		}
	}

	cfg, err := parseScanArgs(args)
	if err != nil {
		if err == flag.ErrHelp {
			printUsage(os.Stdout)
			return
		}
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(2)
	}
	if cfg.showHelp {
		printUsage(os.Stdout)
		return
	}
	if fix {
		v := true
		cfg.scan.Write = &v
	}

	if cfg.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

type cliConfig struct {
	scan       config.ScanConfig
	ui         config.UIConfig
	configPath string
	open       bool
	debug      bool
	progress   bool
	noProgress bool
	showHelp   bool
}

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// parseScanArgs parses CLI flags into a config layer. Only flags the user
// actually passed become non-nil, so the layer merges cleanly over file and
// environment settings.
func parseScanArgs(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("tdfix", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		from         = fs.String("from", "", "text domain to replace")
		fromShort    = fs.String("f", "", "shorthand for --from")
		to           = fs.String("to", "", "replacement text domain")
		toShort      = fs.String("t", "", "shorthand for --to")
		paths        multiFlag
		excludes     multiFlag
		exts         multiFlag
		write        = fs.Bool("write", false, "write fixes back to the files")
		writeShort   = fs.Bool("w", false, "shorthand for --write")
		jobs         = fs.Int("jobs", 0, "max parallel workers")
		jobsShort    = fs.Int("j", 0, "shorthand for --jobs")
		maxFileBytes = fs.Int("max-file-bytes", 0, "skip files larger than N bytes (0=unlimited)")
		root         = fs.String("root", "", "scan root (default: current dir)")
		outputFmt    = fs.String("output", "", "table|tsv|json|ndjson|csv|markdown|html")
		outputShort  = fs.String("o", "", "shorthand for --output")
		color        = fs.String("color", "", "auto|always|never")
		fields       = fs.String("fields", "", "comma separated columns for table/tsv/csv/markdown")
		configPath   = fs.String("config", "", "explicit config file path")
		open         = fs.Bool("open", false, "open the HTML report in a browser")
		debug        = fs.Bool("debug", false, "enable debug logging")
		progress     = fs.Bool("progress", false, "force progress even when piped")
		noProgress   = fs.Bool("no-progress", false, "disable progress/ETA")
		help         = fs.Bool("help", false, "show usage")
		helpShort    = fs.Bool("h", false, "show usage")
	)
	fs.Var(&paths, "path", "restrict the scan to this path (repeatable)")
	fs.Var(&paths, "p", "shorthand for --path")
	fs.Var(&excludes, "exclude", "exclude paths matching this glob (repeatable)")
	fs.Var(&excludes, "x", "shorthand for --exclude")
	fs.Var(&exts, "ext", "additional file extension to scan (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg := &cliConfig{
		configPath: strings.TrimSpace(*configPath),
		open:       *open,
		debug:      *debug,
		progress:   *progress,
		noProgress: *noProgress,
		showHelp:   *help || *helpShort,
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "from":
			cfg.scan.OriginalDomain = from
		case "f":
			cfg.scan.OriginalDomain = fromShort
		case "to":
			cfg.scan.NewDomain = to
		case "t":
			cfg.scan.NewDomain = toShort
		case "write":
			cfg.scan.Write = write
		case "w":
			cfg.scan.Write = writeShort
		case "jobs":
			cfg.scan.Jobs = jobs
		case "j":
			cfg.scan.Jobs = jobsShort
		case "max-file-bytes":
			cfg.scan.MaxFileBytes = maxFileBytes
		case "root":
			cfg.scan.Root = root
		case "output":
			cfg.ui.Output = outputFmt
		case "o":
			cfg.ui.Output = outputShort
		case "color":
			cfg.ui.Color = color
		case "fields":
			cfg.ui.Fields = fields
		}
	})
	if len(paths) > 0 {
		list := engineopts.SplitMulti(paths)
		cfg.scan.Paths = &list
	}
	if len(excludes) > 0 {
		list := engineopts.SplitMulti(excludes)
		cfg.scan.Excludes = &list
	}
	if len(exts) > 0 {
		list := engineopts.SplitMulti(exts)
		cfg.scan.Extensions = &list
	}
	return cfg, nil
}

func run(cfg *cliConfig) error {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	root := "."
	if cfg.scan.Root != nil && strings.TrimSpace(*cfg.scan.Root) != "" {
		root = *cfg.scan.Root
	} else if v := strings.TrimSpace(os.Getenv("TDFIX_ROOT")); v != "" {
		root = v
	}

	explicit := cfg.configPath
	if explicit == "" {
		explicit = os.Getenv("TDFIX_CONFIG")
	}
	home, _ := os.UserHomeDir()
	configFile, source, err := config.Find(root, explicit, os.Getenv("XDG_CONFIG_HOME"), home)
	if err != nil {
		return err
	}
	var fileCfg config.Config
	if configFile != "" {
		fileCfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("config %s: %w", configFile, err)
		}
		log.Debug().Str("path", configFile).Str("source", source).Msg("config loaded")
	}
	envCfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return err
	}

	defaults := engineopts.Defaults(root)
	base := config.ScanSettings{Jobs: defaults.Jobs, Root: root}
	scan := config.MergeScan(base, fileCfg.Scan, envCfg.Scan, cfg.scan)
	ui := config.MergeUI(config.UISettings{}, fileCfg.UI, envCfg.UI, cfg.ui)

	opts := engine.Options{
		OriginalDomain: scan.OriginalDomain,
		TargetDomain:   scan.NewDomain,
		RootDir:        scan.Root,
		Paths:          scan.Paths,
		Excludes:       scan.Excludes,
		Extensions:     scan.Extensions,
		Write:          scan.Write,
		Jobs:           scan.Jobs,
		MaxFileBytes:   scan.MaxFileBytes,
		Progress:       util.ShouldShowProgress(cfg.progress, cfg.noProgress),
	}
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		return err
	}
	for _, warn := range engineopts.Warnings(opts) {
		log.Warn().Msg(warn)
	}

	format, err := engineopts.NormalizeOutput(ui.Output)
	if err != nil {
		return err
	}
	sel, err := output.ResolveFields(ui.Fields)
	if err != nil {
		return err
	}
	mode, err := termcolor.ParseMode(ui.Color)
	if err != nil {
		return err
	}

	res, err := engine.Run(opts)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		err = output.WriteJSON(os.Stdout, res)
	case "ndjson":
		err = output.WriteNDJSON(os.Stdout, res.Items)
	case "csv":
		err = output.WriteCSV(os.Stdout, res.Items, sel)
	case "markdown":
		err = output.WriteMarkdownTable(os.Stdout, res.Items, sel)
	case "html":
		err = output.WriteHTMLReport(os.Stdout, res, sel)
	case "tsv":
		err = printTSV(os.Stdout, res, sel)
	default:
		env := termcolor.EnvMap(os.Environ())
		colorOn := termcolor.Enabled(mode, os.Stdout)
		err = printTable(os.Stdout, res, sel, colorOn, termcolor.DetectProfile(env))
	}
	if err != nil {
		return err
	}

	if cfg.open {
		if err := openReport(res, sel); err != nil {
			return err
		}
	}

	for _, e := range res.Errors {
		log.Warn().Str("file", e.File).Str("stage", e.Stage).Msg(e.Message)
	}
	if res.ErrorCount > 0 {
		return fmt.Errorf("%d files could not be processed", res.ErrorCount)
	}
	return nil
}

// openReport writes the HTML report to a temp file and hands it to the
// default browser.
func openReport(res *engine.Result, sel output.FieldSelection) error {
	f, err := os.CreateTemp("", "tdfix-report-*.html")
	if err != nil {
		return err
	}
	if err := output.WriteHTMLReport(f, res, sel); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	path, err := filepath.Abs(f.Name())
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Msg("opening report")
	return browser.OpenFile(path)
}

func printTSV(w io.Writer, res *engine.Result, sel output.FieldSelection) error {
	tw := tabwriter.NewWriter(w, 0, 8, 0, '\t', 0) // tabs only
	fmt.Fprintln(tw, strings.Join(output.Headers(sel.Fields), "\t"))
	for _, it := range res.Items {
		row := output.RowValues(it, sel.Fields)
		for i := range row {
			row[i] = flattenCell(row[i])
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func printTable(w io.Writer, res *engine.Result, sel output.FieldSelection, colorOn bool, profile termcolor.Profile) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	headers := output.Headers(sel.Fields)
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = termcolor.Apply(termcolor.HeaderStyle(), h, colorOn)
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	for _, it := range res.Items {
		row := output.RowValues(it, sel.Fields)
		for i, f := range sel.Fields {
			cell := flattenCell(row[i])
			switch f.Key {
			case "message":
				cell = textutil.TruncateByWidth(cell, messageColumnWidth, "…")
			case "domain":
				cell = termcolor.Apply(termcolor.DomainStyle(profile), cell, colorOn)
			case "replacement":
				cell = termcolor.Apply(termcolor.ReplacementStyle(profile), cell, colorOn)
			case "location", "file":
				cell = termcolor.Apply(termcolor.LocationStyle(), cell, colorOn)
			case "fixed":
				cell = termcolor.Apply(termcolor.FixedStyle(it.Fixed), cell, colorOn)
			}
			row[i] = cell
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// flattenCell keeps one finding on one line in tabular formats.
func flattenCell(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return s
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `tdfix - replace WordPress text domains in PHP sources

Usage:
  tdfix [scan] [flags]    report calls whose last argument is the old domain
  tdfix fix [flags]       same as scan, but write the fixes back

Flags:
  -f, --from DOMAIN       text domain to replace
  -t, --to DOMAIN         replacement text domain
  -p, --path PATH         restrict the scan to PATH (repeatable)
  -x, --exclude GLOB      exclude matching paths (repeatable)
      --ext EXT           file extensions to scan (default: PHP family)
  -w, --write             write fixes back to the files
  -j, --jobs N            max parallel workers
      --max-file-bytes N  skip files larger than N bytes (0=unlimited)
      --root DIR          scan root (default: current dir)
  -o, --output FORMAT     table|tsv|json|ndjson|csv|markdown|html
      --fields LIST       columns for tabular formats
      --color MODE        auto|always|never
      --config PATH       explicit config file
      --open              open the HTML report in a browser
      --progress          force progress even when piped
      --no-progress       disable progress/ETA
      --debug             enable debug logging
  -h, --help              show this help

Configuration is read from .tdfix.{yaml,toml,json} (walking up from the
root), from TDFIX_* environment variables and from flags, in that order.
`)
}
