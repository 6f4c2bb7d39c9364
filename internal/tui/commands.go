package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/catalog/internal/catalog"
	"github.com/muurk/catalog/internal/productapi"
)

// EventSource is the optional change feed; *productapi.Client implements it
type EventSource interface {
	Events(ctx context.Context) (<-chan productapi.Event, error)
}

// Messages for async operations
type listingMsg struct {
	ticket  catalog.Ticket
	listing catalog.Listing
	err     error
}

type submitMsg struct {
	ticket catalog.Ticket
	result catalog.SubmitResult
	err    error
}

type deleteMsg struct {
	ticket catalog.Ticket
	result catalog.DeleteResult
	err    error
}

type feedStartedMsg struct {
	events <-chan productapi.Event
}

type feedEventMsg struct {
	event productapi.Event
}

type feedClosedMsg struct {
	err error
}

// loadCmd runs a list request for ticket t
func loadCmd(ctx context.Context, ctrl *catalog.Controller, t catalog.Ticket) tea.Cmd {
	return func() tea.Msg {
		listing, err := ctrl.Load(ctx, t.Query)
		return listingMsg{ticket: t, listing: listing, err: err}
	}
}

// submitCmd creates or updates from the form, then reloads
func submitCmd(ctx context.Context, ctrl *catalog.Controller, t catalog.Ticket, form catalog.Form, active catalog.Query) tea.Cmd {
	return func() tea.Msg {
		result, err := ctrl.Submit(ctx, form, active)
		return submitMsg{ticket: t, result: result, err: err}
	}
}

// deleteCmd deletes a product, then reloads
func deleteCmd(ctx context.Context, ctrl *catalog.Controller, t catalog.Ticket, id int64, active catalog.Query) tea.Cmd {
	return func() tea.Msg {
		result, err := ctrl.Delete(ctx, id, active)
		return deleteMsg{ticket: t, result: result, err: err}
	}
}

// startFeedCmd connects to the change feed
func startFeedCmd(ctx context.Context, source EventSource, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		events, err := source.Events(ctx)
		if err != nil {
			log.Info("Live updates unavailable", zap.Error(err))
			return feedClosedMsg{err: err}
		}
		return feedStartedMsg{events: events}
	}
}

// waitForEvent blocks until the next change event or the end of the feed
func waitForEvent(events <-chan productapi.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return feedEventMsg{event: ev}
	}
}
