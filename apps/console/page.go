package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/smaipa/smaipa/console"
)

// screen is one listing of the console.
type screen interface {
	// refresh renders the loading state, fetches the collection and renders it.
	refresh(ctx context.Context) error
	edit(i int) error
	remove(ctx context.Context, i int) (console.Outcome, error)
}

// page binds a console.ListView to the API calls that feed and mutate it.
type page[T any] struct {
	fetch   func(ctx context.Context) ([]T, error)
	build   func(items []T) *console.ListView[T]
	destroy func(ctx context.Context, item T) error

	out     io.Writer
	confirm console.Confirmer
	notify  console.Notifier

	view *console.ListView[T]
}

func (p *page[T]) newView(items []T) *console.ListView[T] {
	lv := p.build(items)
	lv.Confirm = p.confirm
	lv.Notify = p.notify
	lv.OnEdit = p.show
	lv.OnDelete = p.destroy
	return lv
}

// refresh keeps showing the previous records when the fetch fails.
func (p *page[T]) refresh(ctx context.Context) error {
	var prev []T
	if p.view != nil {
		prev = p.view.Items
	}

	loading := p.newView(prev)
	loading.IsLoading = true
	if err := loading.Render(p.out); err != nil {
		return err
	}

	items, err := p.fetch(ctx)
	if err != nil {
		p.notify.Error("Não foi possível carregar os registros", err)
		items = prev
	}
	p.view = p.newView(items)
	return p.view.Render(p.out)
}

func (p *page[T]) edit(i int) error {
	if p.view == nil {
		return console.ErrNoSuchItem
	}
	return p.view.Edit(i)
}

// remove refetches the collection once the deletion went through.
func (p *page[T]) remove(ctx context.Context, i int) (console.Outcome, error) {
	if p.view == nil {
		return console.OutcomeCancelled, console.ErrNoSuchItem
	}
	outcome, err := p.view.Delete(ctx, i)
	if err != nil || outcome != console.OutcomeDeleted {
		return outcome, err
	}
	return outcome, p.refresh(ctx)
}

// show prints the selected record; editing happens on the web front-end.
func (p *page[T]) show(item T) {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		fmt.Fprintf(p.out, "%+v\n", item)
		return
	}
	fmt.Fprintf(p.out, "%s\n", data)
}
