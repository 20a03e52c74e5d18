package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/tomcatup/tomcatup/internal/download"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// DownloadProgress renders a single download as a progress bar on a TTY,
// or as a one-line notice otherwise.
type DownloadProgress struct {
	mu       sync.Mutex
	w        io.Writer
	name     string
	isTTY    bool
	progress *mpb.Progress
	bar      *mpb.Bar
	started  bool
}

// NewDownloadProgress creates a progress display for one named download.
func NewDownloadProgress(w io.Writer, name string) *DownloadProgress {
	p := &DownloadProgress{
		w:     w,
		name:  name,
		isTTY: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	if p.isTTY {
		p.progress = mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	}
	return p
}

// Callback returns the progress callback to hand to the downloader.
func (p *DownloadProgress) Callback() download.ProgressCallback {
	return func(downloaded, total int64) {
		p.mu.Lock()
		defer p.mu.Unlock()

		if !p.started {
			p.started = true
			if p.isTTY {
				p.bar = p.progress.AddBar(total,
					mpb.BarFillerClearOnComplete(),
					mpb.PrependDecorators(
						decor.Name(fmt.Sprintf("  %s ", p.name), decor.WC{W: 30, C: decor.DindentRight}),
					),
					mpb.AppendDecorators(
						decor.CountersKibiByte("% .1f / % .1f"),
						decor.OnComplete(decor.Name(""), " done"),
					),
				)
			} else {
				fmt.Fprintf(p.w, "  downloading %s\n", p.name)
			}
		}

		if p.bar != nil {
			if total > 0 {
				p.bar.SetTotal(total, false)
			}
			p.bar.SetCurrent(downloaded)
		}
	}
}

// Wait finishes bar rendering. Call after the download returns.
func (p *DownloadProgress) Wait() {
	p.mu.Lock()
	bar := p.bar
	p.mu.Unlock()

	if bar != nil {
		bar.SetTotal(bar.Current(), true)
		p.progress.Wait()
	}
}
