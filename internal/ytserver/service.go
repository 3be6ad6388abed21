package ytserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/anatolykoptev/go_ytinfo/internal/binding"
	"github.com/anatolykoptev/go_ytinfo/internal/channel"
	"github.com/anatolykoptev/go_ytinfo/internal/dom"
	"github.com/anatolykoptev/go_ytinfo/internal/engine"
	"github.com/anatolykoptev/go_ytinfo/internal/feed"
	"github.com/anatolykoptev/go_ytinfo/internal/settings"
	"github.com/anatolykoptev/go_ytinfo/internal/widget"
)

// Service backs the MCP tools.
type Service struct {
	agg   binding.Aggregator
	store *settings.Store // nil = defaults, read-only
}

// NewService creates a Service. store may be nil.
func NewService(agg binding.Aggregator, store *settings.Store) *Service {
	return &Service{agg: agg, store: store}
}

// Settings loads the current snapshot. Storage errors fall back to defaults.
func (s *Service) Settings(ctx context.Context) settings.Settings {
	if s.store == nil {
		return settings.Defaults()
	}
	st, err := s.store.Load(ctx)
	if err != nil {
		slog.Warn("ytserver: settings load failed, using defaults", slog.Any("error", err))
		return settings.Defaults()
	}
	return st
}

// ChannelInfo fetches one channel record under the current settings.
func (s *Service) ChannelInfo(ctx context.Context, channelURL string) (ChannelInfo, error) {
	if _, err := channel.NormalizeURL(channelURL); err != nil {
		return ChannelInfo{}, fmt.Errorf("channel_url: %w", err)
	}
	st := s.Settings(ctx)
	rec := s.agg.FetchChannelInfo(ctx, channelURL, st)
	return toChannelInfo(rec, st.Disabled()), nil
}

// Annotate loads markup into a fresh page, lets the feed observer bind every
// comment unit, and returns the page once all fetches have settled.
func (s *Service) Annotate(ctx context.Context, markup string) (AnnotateOutput, error) {
	if markup == "" {
		return AnnotateOutput{}, errors.New("html is required")
	}
	st := s.Settings(ctx)

	loop := dom.NewLoop()
	doc := dom.NewDocument(loop)
	app := doc.CreateElement("ytd-app")
	doc.AppendChild(doc.Body(), app)

	ui := widget.NewUI(doc)
	eng := binding.New(ctx, ui, s.agg, st)
	obs := feed.New(doc, eng)
	if err := obs.Start(app); err != nil {
		return AnnotateOutput{}, err
	}
	defer obs.Stop()

	nodes, err := doc.ParseFragment(markup)
	if err != nil {
		return AnnotateOutput{}, err
	}
	for _, n := range nodes {
		doc.AppendChild(app, n)
	}

	err = engine.TrackOperation(ctx, "annotate_comments", func(ctx context.Context) error {
		return loop.RunUntilIdle(ctx)
	})
	if err != nil {
		return AnnotateOutput{}, fmt.Errorf("annotate: %w", err)
	}

	out := AnnotateOutput{
		HTML:      doc.InnerHTML(app),
		Comments:  len(doc.QuerySelectorAll(app, "ytd-comment-view-model")),
		Annotated: len(doc.QuerySelectorAll(app, "."+widget.ContainerClass)),
		Position:  string(st.Position()),
	}
	md, err := htmltomarkdown.ConvertString(out.HTML)
	if err != nil {
		slog.Debug("ytserver: markdown conversion failed", slog.Any("error", err))
	} else {
		out.Markdown = md
	}
	return out, nil
}

// UpdateSettings persists changes and returns the new snapshot.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsUpdateInput) (SettingsOutput, error) {
	if s.store == nil {
		return SettingsOutput{}, errors.New("settings store not configured")
	}
	values := make(map[settings.Key]bool, len(in.Values))
	for k, v := range in.Values {
		values[settings.Key(k)] = v
	}
	if err := s.store.Save(ctx, values, settings.Position(in.Position)); err != nil {
		return SettingsOutput{}, err
	}
	return toSettingsOutput(s.Settings(ctx)), nil
}

func toSettingsOutput(st settings.Settings) SettingsOutput {
	values := make(map[string]bool, len(settings.Keys))
	for k, v := range st.Values() {
		values[string(k)] = v
	}
	return SettingsOutput{Values: values, Position: string(st.Position()), Disabled: st.Disabled()}
}
