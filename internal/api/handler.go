package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"promo-engine/internal/bubble"
	"promo-engine/internal/promo"
	"promo-engine/internal/tracker"
)

// PromoHandler exposes the controller over HTTP for the host shell and for
// demo/ops use. The core is single-threaded, so every request takes one
// mutex; HTTP concurrency never reaches the controller.
type PromoHandler struct {
	mu      sync.Mutex
	ctrl    *promo.Controller
	anchors *bubble.Resolver
	tracker *tracker.Tracker
}

func NewPromoHandler(ctrl *promo.Controller, anchors *bubble.Resolver, trk *tracker.Tracker) *PromoHandler {
	return &PromoHandler{ctrl: ctrl, anchors: anchors, tracker: trk}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type showRequest struct {
	Key       string `json:"key"`
	BodyArgs  []any  `json:"body_args"`
	TitleArgs []any  `json:"title_args"`
}

func readBody[T any](r *http.Request) T {
	var v T
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&v)
	}
	return v
}

func (h *PromoHandler) params(r *http.Request) promo.Params {
	body := readBody[showRequest](r)
	return promo.Params{
		Feature:   promo.FeatureID(chi.URLParam(r, "feature")),
		Key:       body.Key,
		BodyArgs:  body.BodyArgs,
		TitleArgs: body.TitleArgs,
	}
}

func resultStatus(res promo.Result) int {
	switch res {
	case promo.Success:
		return http.StatusOK
	case promo.Error:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

func (h *PromoHandler) Show(w http.ResponseWriter, r *http.Request) {
	p := h.params(r)
	h.mu.Lock()
	res := h.ctrl.MaybeShowPromo(p)
	h.mu.Unlock()
	writeJSON(w, resultStatus(res), map[string]string{"result": res.String()})
}

func (h *PromoHandler) ShowDemo(w http.ResponseWriter, r *http.Request) {
	p := h.params(r)
	h.mu.Lock()
	res := h.ctrl.MaybeShowPromoForDemo(p)
	h.mu.Unlock()
	writeJSON(w, resultStatus(res), map[string]string{"result": res.String()})
}

func (h *PromoHandler) CanShow(w http.ResponseWriter, r *http.Request) {
	p := h.params(r)
	h.mu.Lock()
	res := h.ctrl.CanShowPromo(p)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"result": res.String()})
}

func (h *PromoHandler) Queue(w http.ResponseWriter, r *http.Request) {
	p := h.params(r)
	h.mu.Lock()
	accepted := h.ctrl.MaybeShowStartupPromo(p)
	h.mu.Unlock()
	status := http.StatusAccepted
	if !accepted {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]bool{"accepted": accepted})
}

type endRequest struct {
	Reason string `json:"reason"`
}

func (h *PromoHandler) End(w http.ResponseWriter, r *http.Request) {
	feature := promo.FeatureID(chi.URLParam(r, "feature"))
	reason := parseReason(readBody[endRequest](r).Reason)
	h.mu.Lock()
	ended := h.ctrl.EndPromo(feature, reason)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"ended": ended})
}

func (h *PromoHandler) Status(w http.ResponseWriter, r *http.Request) {
	feature := promo.FeatureID(chi.URLParam(r, "feature"))
	h.mu.Lock()
	status := h.ctrl.GetPromoStatus(feature)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}

type anchorRequest struct {
	Visible bool `json:"visible"`
}

// SetAnchorVisible toggles a registered anchor, letting operators reproduce
// blocked-by-ui conditions.
func (h *PromoHandler) SetAnchorVisible(w http.ResponseWriter, r *http.Request) {
	id := bubble.ElementID(chi.URLParam(r, "anchor"))
	req := readBody[anchorRequest](r)

	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.anchors.Find(id)
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown anchor"})
		return
	}
	if req.Visible {
		e.Show()
	} else {
		e.Hide()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"visible": e.Visible()})
}

type initRequest struct {
	Success *bool `json:"success"`
}

// InitTracker completes tracker initialization, draining the startup queue.
func (h *PromoHandler) InitTracker(w http.ResponseWriter, r *http.Request) {
	req := readBody[initRequest](r)
	ok := req.Success == nil || *req.Success
	h.mu.Lock()
	h.tracker.Initialize(ok)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"initialized": true, "success": ok})
}

// BubbleAction drives the current bubble: dismiss, timeout, or button press.
func (h *PromoHandler) BubbleAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")

	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.ctrl.CurrentBubble()
	if b == nil {
		b = h.ctrl.CriticalBubble()
	}
	if b == nil || !b.IsOpen() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no bubble showing"})
		return
	}
	switch action {
	case "dismiss":
		b.Dismiss()
	case "timeout":
		b.FireTimeout()
	case "button":
		i, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index required"})
			return
		}
		b.PressButton(i)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown action"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"done": true})
}

func parseReason(s string) promo.ClosedReason {
	switch s {
	case "feature_engaged":
		return promo.ClosedFeatureEngaged
	case "dismiss":
		return promo.ClosedDismiss
	case "snooze":
		return promo.ClosedSnooze
	default:
		return promo.ClosedAbortedByFeature
	}
}
