package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultPDFTimeout bounds one headless-browser render.
const DefaultPDFTimeout = 30 * time.Second

// A4 paper size in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// PDFRenderer prints HTML to PDF with headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type PDFRenderer struct {
	timeout  time.Duration
	execPath string
}

// NewPDFRenderer creates a renderer. A non-positive timeout uses DefaultPDFTimeout;
// an empty execPath lets chromedp locate the browser.
func NewPDFRenderer(timeout time.Duration, execPath string) *PDFRenderer {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &PDFRenderer{timeout: timeout, execPath: execPath}
}

// RenderPDF loads html into a blank page and prints it as an A4 PDF with backgrounds.
func (r *PDFRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless browser PDF rendering failed", Cause: err}
	}
	return pdf, nil
}
