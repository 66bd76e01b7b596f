package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"
)

const (
	DefaultTicketWidth = 42
	minTicketWidth     = 24
	maxTicketWidth     = 80
)

// TicketRenderer lays out print jobs for a fixed-width receipt printer.
type TicketRenderer struct {
	width    int
	location *time.Location
}

// NewTicketRenderer returns a renderer for paper of width columns. Times are
// printed in loc, or UTC when loc is nil.
func NewTicketRenderer(width int, loc *time.Location) (TicketRenderer, error) {
	if width < minTicketWidth || width > maxTicketWidth {
		return TicketRenderer{}, errs.NewValueIsOutOfRangeError("ticket width", width, minTicketWidth, maxTicketWidth)
	}
	if loc == nil {
		loc = time.UTC
	}
	return TicketRenderer{width: width, location: loc}, nil
}

func (r TicketRenderer) Width() int {
	return r.width
}

// Render returns the ticket text for job, newline terminated.
func (r TicketRenderer) Render(job *printjob.PrintJob) string {
	snap := job.Snapshot()
	var b strings.Builder

	r.rule(&b, '=')
	if job.ReprintOf() != nil {
		r.center(&b, "*** REPRINT ***")
	}
	table := "Table " + snap.Table
	if snap.Room != "" {
		table += " (" + snap.Room + ")"
	}
	r.line(&b, table)
	if snap.TableComment != "" {
		r.line(&b, "Note: "+snap.TableComment)
	}
	r.line(&b, "Waitress: "+snap.Waitress)
	r.columns(&b, strings.ToUpper(snap.Kind), snap.CreatedAt.In(r.location).Format("02.01.06 15:04"))
	r.rule(&b, '-')

	for _, l := range snap.LineItems {
		r.columns(&b, fmt.Sprintf("%dx %s", l.Quantity, l.Name), l.Subtotal().StringFixed(2))
		if l.Variant != "" {
			r.line(&b, "   "+l.Variant)
		}
		if l.CookingInstruction != "" {
			r.line(&b, "   "+l.CookingInstruction)
		}
		if l.Comment != "" {
			r.line(&b, "   > "+l.Comment)
		}
	}

	r.rule(&b, '-')
	r.columns(&b, "TOTAL", snap.Total().StringFixed(2))
	r.rule(&b, '=')
	return b.String()
}

func (r TicketRenderer) rule(b *strings.Builder, ch rune) {
	b.WriteString(strings.Repeat(string(ch), r.width))
	b.WriteByte('\n')
}

func (r TicketRenderer) line(b *strings.Builder, text string) {
	b.WriteString(truncate(text, r.width))
	b.WriteByte('\n')
}

func (r TicketRenderer) center(b *strings.Builder, text string) {
	text = truncate(text, r.width)
	pad := (r.width - utf8.RuneCountInString(text)) / 2
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(text)
	b.WriteByte('\n')
}

// columns prints left and right aligned to the edges, shortening left so
// right always fits.
func (r TicketRenderer) columns(b *strings.Builder, left, right string) {
	right = truncate(right, r.width)
	room := r.width - utf8.RuneCountInString(right) - 1
	left = truncate(left, max(room, 0))
	gap := r.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", max(gap, 0)))
	b.WriteString(right)
	b.WriteByte('\n')
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width])
}
