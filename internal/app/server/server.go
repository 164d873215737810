package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"promo-engine/internal/api"
	"promo-engine/internal/bubble"
	"promo-engine/internal/config"
	"promo-engine/internal/listener"
	"promo-engine/internal/promo"
	"promo-engine/internal/storage"
	"promo-engine/internal/tracker"
	"promo-engine/internal/tutorial"
)

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	store, err := buildStorage(rootCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	if pg, ok := store.(*storage.Store); ok {
		defer pg.Close()
		go listener.ListenAndRefresh(rootCtx, pg, cfg.Listener.Channel, cfg.Backoff())
	}

	// Promo registry and anchors
	registry, anchors, err := buildRegistry(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load promo definitions")
	}

	// Tutorials
	tutorials := tutorial.NewService()
	for _, td := range cfg.Tutorials {
		steps := make([]tutorial.Step, 0, len(td.Steps))
		for _, s := range td.Steps {
			steps = append(steps, tutorial.Step{
				Title:  s.Title,
				Body:   s.Body,
				Anchor: bubble.ElementID(s.Anchor),
			})
		}
		if err := tutorials.Register(td.ID, steps); err != nil {
			log.Fatal().Err(err).Msg("register tutorial")
		}
	}

	// Engagement tracker. Unless the deployment wants to drive
	// initialization through the API, treat it as ready at once.
	trk := tracker.New(cfg.Promos.MaxShowsPerSession)
	if !cfg.Promos.ManualTrackerInit {
		trk.Initialize(true)
	}

	ctrl := promo.NewController(promo.ControllerConfig{
		Registry:       registry,
		Tracker:        trk,
		Bubbles:        bubble.NewFactory(),
		Anchors:        anchors,
		Storage:        store,
		Tutorials:      tutorials,
		Features:       buildGate(cfg),
		AnchorContext:  bubble.ContextID(cfg.Promos.Context),
		DemoMode:       cfg.Promos.DemoMode,
		DefaultTimeout: cfg.DefaultTimeout(),
	})

	// HTTP
	h := api.NewPromoHandler(ctrl, anchors, trk)
	r := api.Router(h)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Int("promos", len(cfg.Definitions)).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel() // stop background goroutines
	_ = srv.Shutdown(shCtx)
}

func buildStorage(ctx context.Context, cfg config.Config) (promo.StorageService, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return storage.NewMemory(), nil
	case "postgres":
		return storage.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// buildRegistry turns the declarative promo definitions into registered
// specifications and registers every referenced anchor as a visible element
// in the configured context.
func buildRegistry(cfg config.Config) (*promo.Registry, *bubble.Resolver, error) {
	registry := promo.NewRegistry()
	anchors := bubble.NewResolver()
	seen := map[bubble.ElementID]bool{}

	for _, d := range cfg.Definitions {
		kind, err := parseKind(d.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("promo %q: %w", d.Feature, err)
		}
		subtype, err := parseSubtype(d.Subtype)
		if err != nil {
			return nil, nil, fmt.Errorf("promo %q: %w", d.Feature, err)
		}
		spec := promo.Specification{
			Feature:        promo.FeatureID(d.Feature),
			Kind:           kind,
			Subtype:        subtype,
			Anchor:         bubble.ElementID(d.Anchor),
			Body:           d.Body,
			Title:          d.Title,
			Timeout:        time.Duration(d.TimeoutSeconds) * time.Second,
			MaxSnoozeCount: d.MaxSnoozeCount,
			SnoozeDuration: time.Duration(d.SnoozeHours) * time.Hour,
			MaxShowCount:   d.MaxShowCount,
			TutorialID:     d.TutorialID,
		}
		if err := registry.Register(spec); err != nil {
			return nil, nil, err
		}
		if id := spec.Anchor; !seen[id] {
			seen[id] = true
			e := bubble.NewElement(id, bubble.ContextID(cfg.Promos.Context))
			e.Show()
			anchors.Register(e)
		}
	}
	return registry, anchors, nil
}

func buildGate(cfg config.Config) promo.FeatureGate {
	if len(cfg.Promos.EnabledFeatures) == 0 {
		return nil
	}
	enabled := map[promo.FeatureID]bool{}
	for _, f := range cfg.Promos.EnabledFeatures {
		enabled[promo.FeatureID(f)] = true
	}
	return promo.GateFunc(func(f promo.FeatureID) bool { return enabled[f] })
}

func parseKind(s string) (promo.Kind, error) {
	switch s {
	case "toast":
		return promo.KindToast, nil
	case "snooze", "":
		return promo.KindSnooze, nil
	case "tutorial":
		return promo.KindTutorial, nil
	case "custom_action":
		// Needs a Go callback, so it cannot come from config.
		return promo.KindUnspecified, fmt.Errorf("custom_action promos are registered in code, not config")
	case "legacy":
		return promo.KindLegacy, nil
	default:
		return promo.KindUnspecified, fmt.Errorf("unknown promo kind %q", s)
	}
}

func parseSubtype(s string) (promo.Subtype, error) {
	switch s {
	case "normal", "":
		return promo.SubtypeNormal, nil
	case "keyed_notice":
		return promo.SubtypeKeyedNotice, nil
	case "legal_notice":
		return promo.SubtypeLegalNotice, nil
	default:
		return promo.SubtypeNormal, fmt.Errorf("unknown promo subtype %q", s)
	}
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
