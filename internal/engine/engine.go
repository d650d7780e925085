package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phyten/tdfix/internal/model"
	"github.com/phyten/tdfix/internal/phptok"
	"github.com/phyten/tdfix/internal/rule"
	"github.com/phyten/tdfix/internal/util"
)

const maxJobs = 64

// Run は指定されたオプションに従って PHP ソースツリーを走査し、
// テキストドメインの検出結果（と --write 時は修正結果）を返します。
//
// ファイル単位の失敗は Result.Errors に集約され、走査全体は継続します。
// TargetDomain が空のときはルール全体が無効で、走査自体を行いません。
func Run(opts Options) (*Result, error) {
	start := time.Now()
	if opts.TargetDomain == "" {
		// spec'd short-circuit: nothing to rewrite to, nothing to scan
		return &Result{ElapsedMS: msSince(start)}, nil
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}

	files, err := listFiles(opts)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("files", len(files)).Str("root", opts.RootDir).Msg("scan start")
	if len(files) == 0 {
		return &Result{FilesSeen: 0, ElapsedMS: msSince(start)}, nil
	}

	type fileResult struct {
		items []Item
		errs  []ItemError
	}

	work := make(chan string)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		go func() {
			defer wg.Done()
			for rel := range work {
				items, errs := processFile(opts, rel)
				results <- fileResult{items: items, errs: errs}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, rel := range files {
			work <- rel
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	prog := util.NewProgress(len(files), opts.Progress)
	var all []Item
	var errs []ItemError
	done := 0
	for res := range results {
		done++
		prog.Update(done)
		all = append(all, res.items...)
		errs = append(errs, res.errs...)
	}
	prog.Done()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].File == all[j].File {
			if all[i].Span.StartLine == all[j].Span.StartLine {
				return all[i].Span.StartCol < all[j].Span.StartCol
			}
			return all[i].Span.StartLine < all[j].Span.StartLine
		}
		return all[i].File < all[j].File
	})
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			return errs[i].Stage < errs[j].Stage
		}
		return errs[i].File < errs[j].File
	})

	fixed := 0
	for _, it := range all {
		if it.Fixed {
			fixed++
		}
	}
	return &Result{
		Items:      all,
		Total:      len(all),
		FixedCount: fixed,
		FilesSeen:  len(files),
		ElapsedMS:  msSince(start),
		Errors:     errs,
		ErrorCount: len(errs),
	}, nil
}

func processFile(opts Options, rel string) ([]Item, []ItemError) {
	full := filepath.Join(opts.RootDir, rel)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, []ItemError{{File: rel, Stage: "read", Message: err.Error()}}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, nil
	}
	if opts.MaxFileBytes > 0 && len(data) > opts.MaxFileBytes {
		log.Debug().Str("file", rel).Int("bytes", len(data)).Msg("skipped: over size limit")
		return nil, nil
	}

	stream := phptok.Tokenize(data)
	col := &collector{
		stream:      stream,
		file:        rel,
		acceptFixes: opts.Write,
		domain:      opts.OriginalDomain,
		replacement: "'" + opts.TargetDomain + "'",
	}
	rule.Run(stream, rule.Config{
		OriginalDomain: opts.OriginalDomain,
		TargetDomain:   opts.TargetDomain,
	}, col)
	log.Debug().Str("file", rel).Int("findings", len(col.items)).Msg("scanned")

	var errs []ItemError
	if opts.Write && len(col.edits) > 0 {
		if err := rewriteFile(full, applyEdits(data, col.edits)); err != nil {
			for i := range col.items {
				col.items[i].Fixed = false
			}
			errs = append(errs, ItemError{File: rel, Stage: "write", Message: err.Error()})
		}
	}
	return col.items, errs
}

// collector is the host side of the rule's Reporter contract for one file.
// It records findings and, when fixes are accepted, the corresponding edits.
type collector struct {
	stream      *phptok.Stream
	file        string
	acceptFixes bool
	domain      string
	replacement string
	items       []Item
	edits       []TextEdit
}

func (c *collector) ReportFixable(pos int, message, code string) bool {
	tok := c.stream.At(pos)
	startLine, startCol := c.stream.LineCol(tok.ByteStart)
	endLine, endCol := c.stream.LineCol(tok.ByteEnd)
	c.items = append(c.items, Item{
		File: c.file,
		Span: model.Span{
			StartLine: startLine,
			StartCol:  startCol,
			EndLine:   endLine,
			EndCol:    endCol,
			ByteStart: tok.ByteStart,
			ByteEnd:   tok.ByteEnd,
		},
		Message:     message,
		Code:        code,
		Domain:      c.domain,
		Replacement: c.replacement,
	})
	return c.acceptFixes
}

func (c *collector) ReplaceTokenText(pos int, newText string) {
	tok := c.stream.At(pos)
	c.edits = append(c.edits, TextEdit{ByteStart: tok.ByteStart, ByteEnd: tok.ByteEnd, NewText: newText})
	c.items[len(c.items)-1].Fixed = true
}

func msSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
