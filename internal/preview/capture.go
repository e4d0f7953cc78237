package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/chromedp/chromedp"

	"github.com/invopdf/invopdf/internal/render/raster"
	"github.com/invopdf/invopdf/pkg/model"
)

// Capturer screenshots preview pages in a headless browser. The browser
// renders the same HTML the on-screen preview shows, so a capture matches
// the preview pixel for pixel.
type Capturer struct {
	// Scale multiplies the device pixel ratio of the capture. A scale of 2
	// produces a bitmap twice the canvas dimensions.
	Scale float64
}

// Capture renders the page HTML in a headless browser and returns the
// resulting bitmap of the page canvas.
func (c *Capturer) Capture(ctx context.Context, pageHTML string) (image.Image, error) {
	scale := c.Scale
	if scale <= 0 {
		scale = raster.DefaultScale
	}

	// A data URI avoids writing the page to a temp file before loading it.
	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(pageHTML))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var screenshotBuf []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(model.CanvasWidth, model.CanvasHeight, chromedp.EmulateScale(scale)),
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`.invoice-preview-canvas`, chromedp.ByQuery),
		chromedp.Screenshot(`.invoice-preview-canvas`, &screenshotBuf, chromedp.ByQuery),
	}
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("failed to capture preview page: %w", err)
	}
	if len(screenshotBuf) == 0 {
		return nil, fmt.Errorf("preview capture produced an empty screenshot")
	}

	img, err := png.Decode(bytes.NewReader(screenshotBuf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode preview screenshot: %w", err)
	}
	return img, nil
}
