package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// BatchUI manages per-file progress for concurrent batch processing using
// mpb. Each in-flight file shows a spinner; completed files collapse into a
// single summary line printed above the remaining spinners.
type BatchUI struct {
	progress   *mpb.Progress
	isTerminal bool
	totalFiles int
}

// FileBar tracks a single file's progress in the batch UI.
type FileBar struct {
	bar       *mpb.Bar
	ui        *BatchUI
	index     int
	inputPath string
	startTime time.Time
}

// NewBatchUI creates a batch UI for the given number of files.
func NewBatchUI(totalFiles int) *BatchUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		// Enable ANSI escape sequences on Windows for proper rendering
		enableANSIOnWindows(os.Stderr)

		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(100),
		)
	} else {
		// Non-TTY: disable live bars, fall back to plain text lines
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &BatchUI{
		progress:   p,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// AddFileBar registers a file that is about to be processed. A request is a
// single round trip, so in-flight files show a spinner rather than a byte
// counter.
func (u *BatchUI) AddFileBar(index int, inputPath string) *FileBar {
	fb := &FileBar{
		ui:        u,
		index:     index,
		inputPath: inputPath,
		startTime: time.Now(),
	}

	if u.isTerminal {
		fb.bar = u.progress.New(1,
			mpb.SpinnerStyle(),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d/%d] %s",
					index, u.totalFiles,
					truncatePath(inputPath, 2)), decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Fprintf(os.Stderr, "Processing [%d/%d]: %s\n",
			index, u.totalFiles, truncatePath(inputPath, 2))
	}

	return fb
}

// Complete marks the file as finished and prints its summary line.
func (f *FileBar) Complete(outputPath string, transactions int, err error) {
	elapsed := time.Since(f.startTime)

	var msg string
	if err == nil {
		if f.bar != nil {
			f.bar.SetCurrent(1) // Mark done, trigger BarRemoveOnComplete
		}
		msg = fmt.Sprintf("✓ %s → %s (%d transactions, %s)\n",
			truncatePath(f.inputPath, 2),
			truncatePath(outputPath, 2),
			transactions,
			elapsed.Round(time.Millisecond))
	} else {
		if f.bar != nil {
			f.bar.Abort(true) // Drop the spinner, the summary line carries the failure
		}
		msg = fmt.Sprintf("✗ %s: %v\n", truncatePath(f.inputPath, 2), err)
	}

	// Write through mpb's writer when live so the line lands above the bars
	if f.ui.isTerminal && f.ui.progress != nil {
		f.ui.progress.Write([]byte(msg))
	} else {
		fmt.Fprint(os.Stderr, msg)
	}
}

// Wait blocks until all progress bars complete.
func (u *BatchUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// LogWriter returns an io.Writer that safely prints above the progress bars.
func (u *BatchUI) LogWriter() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// truncatePath truncates a file path to show only the last N components.
// Example: truncatePath("/a/b/c/d/file.txt", 2) → "…/d/file.txt"
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= maxComponents {
		return filepath.Base(path)
	}
	relevant := parts[len(parts)-maxComponents:]
	return "…/" + strings.Join(relevant, "/")
}

// enableANSIOnWindows enables Virtual Terminal processing on Windows so ANSI
// escape sequences render. No-op elsewhere.
func enableANSIOnWindows(f *os.File) {
	if runtime.GOOS == "windows" {
		enableWindowsANSI(f)
	}
}
