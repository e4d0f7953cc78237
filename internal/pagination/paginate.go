// Package pagination partitions a document's line items into page descriptors
// by probing candidate page configurations against a renderer and overflow
// oracle. The algorithm is pessimistic by default: it packs pages assuming the
// totals and remarks blocks are hidden (maximizing item rows), and only shows
// them once the remaining content provably fits, with a repair pass that
// guarantees every document ends on a page with totals visible.
package pagination

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/internal/overflow"
	"github.com/invopdf/invopdf/pkg/model"
)

// Measurement is the outcome of probing one candidate page configuration
type Measurement struct {
	// Overflow reports whether any content exceeded its bounds
	Overflow bool
	// Fits is the number of leading item rows that fit inside the items
	// table, valid only when Measurable is true
	Fits int
	// Measurable reports whether the probe found a measurable items table
	Measurable bool
}

// Measurer renders one candidate page configuration and measures it. Probes
// run strictly sequentially; implementations may reuse scratch state between
// calls but must be fully settled when Measure returns.
type Measurer interface {
	Measure(ctx context.Context, tpl *model.Template, inv *model.Invoice, cfg layout.PageConfig) (Measurement, error)
}

// RenderMeasurer is the default Measurer: an off-screen render through the
// page renderer, measured by the overflow oracle and discarded.
type RenderMeasurer struct {
	Renderer *layout.Renderer
	Oracle   *overflow.Oracle
}

// Measure renders the configuration and reports its overflow state
func (m *RenderMeasurer) Measure(ctx context.Context, tpl *model.Template, inv *model.Invoice, cfg layout.PageConfig) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}

	page := m.Renderer.Render(tpl, inv, cfg)
	fits, measurable := m.Oracle.FitCount(page)

	result := Measurement{
		Overflow:   m.Oracle.HasOverflow(page),
		Fits:       fits,
		Measurable: measurable,
	}
	if measurable && fits < len(cfg.Items) {
		result.Overflow = true
	}
	return result, nil
}

// Paginator drives the measurement loop
type Paginator struct {
	measurer Measurer
	log      *logrus.Entry
}

// NewPaginator creates a paginator over the given measurement backend
func NewPaginator(measurer Measurer) *Paginator {
	return &Paginator{
		measurer: measurer,
		log:      logrus.WithField("component", "pagination"),
	}
}

// Paginate partitions the record's items into an ordered sequence of page
// descriptors. Concatenating the descriptors' items reproduces the original
// item list exactly, start indexes form a gap-free running count, and the
// final descriptor always shows totals and remarks. Pagination never fails
// on "page too small" conditions; the only returned errors are context
// cancellation.
func (p *Paginator) Paginate(ctx context.Context, tpl *model.Template, inv *model.Invoice) ([]model.PageDescriptor, error) {
	items := inv.Items

	// Without an items table there is nothing to split against: everything
	// goes on a single page with totals and remarks shown.
	if tpl == nil || !tpl.HasElement(model.ElementItemsTable) {
		return []model.PageDescriptor{{Items: items}}, nil
	}
	if len(items) == 0 {
		return []model.PageDescriptor{{Items: []model.LineItem{}}}, nil
	}

	var pages []model.PageDescriptor
	remaining := items
	startIndex := 0

	for len(remaining) > 0 {
		take, hideTotals, hideRemarks, err := p.packPage(ctx, tpl, inv, remaining, startIndex)
		if err != nil {
			return nil, err
		}

		pages = append(pages, model.PageDescriptor{
			Items:       remaining[:take:take],
			StartIndex:  startIndex,
			HideTotals:  hideTotals,
			HideRemarks: hideRemarks,
		})
		p.log.WithFields(logrus.Fields{
			"page":       len(pages),
			"items":      take,
			"startIndex": startIndex,
			"hideTotals": hideTotals,
		}).Debug("packed page")

		remaining = remaining[take:]
		startIndex += take
	}

	pages, err := p.ensureTotalsVisible(ctx, tpl, inv, pages)
	if err != nil {
		return nil, err
	}

	p.verify(items, pages)
	return pages, nil
}

// packPage determines how many leading items of remaining fit on one page.
// Totals and remarks are provisionally hidden (the conservative case: hiding
// them frees vertical space for rows); they are only shown when the entire
// remainder fits alongside them.
func (p *Paginator) packPage(ctx context.Context, tpl *model.Template, inv *model.Invoice, remaining []model.LineItem, startIndex int) (int, bool, bool, error) {
	m, err := p.probe(ctx, tpl, inv, remaining, startIndex, true)
	if err != nil {
		return 0, false, false, err
	}

	if !m.Overflow {
		// Everything left fits with totals hidden; can it carry them too?
		shown, err := p.probe(ctx, tpl, inv, remaining, startIndex, false)
		if err != nil {
			return 0, false, false, err
		}
		if !shown.Overflow {
			return len(remaining), false, false, nil
		}
		return len(remaining), true, true, nil
	}

	var take int
	if m.Measurable {
		take = m.Fits
	} else {
		take, err = p.linearFit(ctx, tpl, inv, remaining, startIndex)
		if err != nil {
			return 0, false, false, err
		}
	}

	if take >= len(remaining) {
		// All rows fit but something item-independent overflows; taking
		// fewer items cannot help, so keep the page whole
		take = len(remaining)
	}
	if take < 1 {
		// Forced progress: place one item even if it overflows its box
		take = 1
	}
	return take, true, true, nil
}

// linearFit probes prefix lengths in order and returns the largest prefix
// that does not overflow with totals hidden. Fit is monotonic in the prefix
// length, so the first overflowing candidate ends the scan.
func (p *Paginator) linearFit(ctx context.Context, tpl *model.Template, inv *model.Invoice, remaining []model.LineItem, startIndex int) (int, error) {
	best := 0
	for candidate := 1; candidate <= len(remaining); candidate++ {
		m, err := p.probe(ctx, tpl, inv, remaining[:candidate], startIndex, true)
		if err != nil {
			return 0, err
		}
		if m.Overflow {
			break
		}
		best = candidate
	}
	return best, nil
}

// ensureTotalsVisible is the post-pass: the final page must show totals and
// remarks. If the last batch cannot carry them, items are moved one at a time
// onto a trailing page; if even a lone item leaves no room, a dedicated
// totals-only page is appended.
func (p *Paginator) ensureTotalsVisible(ctx context.Context, tpl *model.Template, inv *model.Invoice, pages []model.PageDescriptor) ([]model.PageDescriptor, error) {
	for len(pages) > 0 {
		last := &pages[len(pages)-1]
		if !last.HideTotals && !last.HideRemarks {
			break
		}

		m, err := p.probe(ctx, tpl, inv, last.Items, last.StartIndex, false)
		if err != nil {
			return nil, err
		}
		if !m.Overflow || len(last.Items) == 0 {
			last.HideTotals = false
			last.HideRemarks = false
			break
		}

		if len(last.Items) > 1 {
			// Free up space by moving the last item onto its own page,
			// then retry the totals check there
			moved := last.Items[len(last.Items)-1]
			last.Items = last.Items[:len(last.Items)-1]
			pages = append(pages, model.PageDescriptor{
				Items:       []model.LineItem{moved},
				StartIndex:  last.StartIndex + len(last.Items),
				HideTotals:  true,
				HideRemarks: true,
			})
			p.log.WithField("startIndex", pages[len(pages)-1].StartIndex).
				Debug("moved trailing item to new page for totals")
			continue
		}

		// A single item and the totals block cannot share a page: close the
		// document with a totals-only page
		pages = append(pages, model.PageDescriptor{
			Items:      []model.LineItem{},
			StartIndex: last.StartIndex + len(last.Items),
		})
		p.log.Debug("appended totals-only trailing page")
		break
	}
	return pages, nil
}

// probe measures one candidate configuration; measurement failures count as
// overflow so the caller falls back to a smaller prefix instead of erroring
func (p *Paginator) probe(ctx context.Context, tpl *model.Template, inv *model.Invoice, items []model.LineItem, startIndex int, hidden bool) (Measurement, error) {
	m, err := p.measurer.Measure(ctx, tpl, inv, layout.PageConfig{
		Items:       items,
		StartIndex:  startIndex,
		HideTotals:  hidden,
		HideRemarks: hidden,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Measurement{}, ctx.Err()
		}
		p.log.WithError(err).Debug("probe failed, assuming overflow")
		return Measurement{Overflow: true}, nil
	}
	return m, nil
}

// verify checks the concatenation invariant and logs a warning on violation;
// descriptors are handed to the caller regardless
func (p *Paginator) verify(items []model.LineItem, pages []model.PageDescriptor) {
	count := 0
	for i := range pages {
		if pages[i].StartIndex != count {
			p.log.WithFields(logrus.Fields{
				"page": i, "startIndex": pages[i].StartIndex, "expected": count,
			}).Warn("page start index out of sequence")
		}
		count += len(pages[i].Items)
	}
	if count != len(items) {
		p.log.WithFields(logrus.Fields{
			"distributed": count, "items": len(items),
		}).Warn("pagination lost or duplicated items")
	}
}
