package engine

import (
	"errors"
	"log/slog"

	"github.com/talgya/hexclaim/internal/board"
)

// Save claims or edits the selected cell. The record must already be
// loaded so the claim/edit decision is made against real state, and the
// store write must succeed before the cache sees the new record — a
// failed write leaves everything as it was.
func (e *Engine) Save(color, label, secret string) (board.SaveOutcome, Change, error) {
	var ch Change
	if !e.started {
		return board.SaveOutcome{}, ch, &board.ValidationError{Reason: "board not started"}
	}
	if e.selected < 0 {
		return board.SaveOutcome{}, ch, &board.ValidationError{Reason: "no cell selected"}
	}

	current, loaded := e.cache.Get(e.selected)
	if !loaded {
		return board.SaveOutcome{}, ch, &board.ValidationError{Reason: "cell still loading"}
	}

	outcome, err := e.proto.Apply(current, board.SaveRequest{
		Index:  e.selected,
		Color:  color,
		Label:  label,
		Secret: secret,
	})
	if err != nil {
		var authErr *board.AuthError
		if errors.As(err, &authErr) {
			e.events.Append(board.NewEvent(board.EventDenied, e.selected, ""))
		}
		slog.Warn("save rejected", "index", e.selected, "error", err)
		return board.SaveOutcome{}, ch, err
	}

	e.cache.Put(e.selected, outcome.Record)

	kind := board.EventEdit
	if outcome.Claimed {
		kind = board.EventClaim
	}
	e.events.Append(board.NewEvent(kind, e.selected, outcome.Record.Label))
	slog.Info("cell saved", "index", e.selected, "kind", kind, "label", outcome.Record.Label)

	ch.Redraw = true
	return outcome, ch, nil
}

// Step applies cell fetches that completed since the last call. Run it
// once per frame. A repaint is only requested when a loaded cell could
// actually be on screen.
func (e *Engine) Step() Change {
	var ch Change
	if !e.started {
		return ch
	}

	for _, res := range e.cache.Drain() {
		if res.Err != nil {
			continue
		}
		ch.Loaded = append(ch.Loaded, res.Index)
		if res.Record != nil && e.cellVisible(res.Index) {
			ch.Redraw = true
		}
	}
	return ch
}
