package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/observability"
)

// ErrUnsupported is returned by a host capability that is not available.
var ErrUnsupported = errors.New("capability not supported on this host")

// Payload is what gets handed to a native share target.
type Payload struct {
	Title string
	Text  string
	URL   string
}

type Sharer interface {
	Share(ctx context.Context, p Payload) error
}

type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// ShareOutcome says which path a successful share took.
type ShareOutcome int

const (
	Shared ShareOutcome = iota
	Copied
)

func (o ShareOutcome) String() string {
	if o == Copied {
		return "copied"
	}
	return "shared"
}

// Host bundles the share capabilities of the running environment. Either
// capability may be nil.
type Host struct {
	Sharer    Sharer
	Clipboard Clipboard
	// URL is the link to the results page included in shares.
	URL string
}

func NewPayload(it *model.ItineraryResponse, url string) Payload {
	return Payload{Title: it.Title, Text: it.Summary, URL: url}
}

// CopyText is the clipboard fallback for a share.
func (p Payload) CopyText() string {
	return fmt.Sprintf("%s\n\n%s\n\nView full itinerary: %s", p.Title, p.Text, p.URL)
}

// Share offers the itinerary to the native share target, falling back to
// the clipboard when sharing is unavailable or fails.
func Share(ctx context.Context, h Host, it *model.ItineraryResponse) (out ShareOutcome, err error) {
	defer func() {
		kind := "share"
		if out == Copied {
			kind = "clipboard"
		}
		observability.ObserveExport(kind, err)
	}()

	if it == nil {
		return Shared, errors.New("sharing: no itinerary")
	}
	p := NewPayload(it, h.URL)

	if h.Sharer != nil {
		shareErr := h.Sharer.Share(ctx, p)
		if shareErr == nil {
			return Shared, nil
		}
		if ctx.Err() != nil {
			return Shared, ctx.Err()
		}
	}

	if h.Clipboard == nil {
		return Copied, fmt.Errorf("sharing: %w", ErrUnsupported)
	}
	if err := h.Clipboard.WriteText(p.CopyText()); err != nil {
		return Copied, fmt.Errorf("copying share text: %w", err)
	}
	return Copied, nil
}
