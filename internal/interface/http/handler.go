package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
	"github.com/yanqian/ketoslim-funnel/internal/domain/offer"
	"github.com/yanqian/ketoslim-funnel/internal/domain/session"
	"github.com/yanqian/ketoslim-funnel/pkg/metrics"
)

// Handler wires the HTTP transport to the session service.
type Handler struct {
	sessions session.Service
	counters *metrics.Funnel
	logger   *slog.Logger
}

// NewHandler constructs the funnel HTTP handler.
func NewHandler(sessions session.Service, counters *metrics.Funnel, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		counters: counters,
		logger:   logger.With("component", "http.handler"),
	}
}

type selectPlanRequest struct {
	Plan offer.PlanType `json:"plan" binding:"required"`
}

// Page handles direct navigation and reloads of a funnel path. A path that
// names no step renders nothing.
func (h *Handler) Page(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	view, err := h.sessions.Visit(c.Request.Context(), id, c.Request.URL.Path)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.counters.Visit()
	if view.Screen == funnel.ScreenNone {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, view)
}

// State returns the current view without navigating.
func (h *Handler) State(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, func() (session.View, error) {
		return h.sessions.State(c.Request.Context(), id)
	})
}

// UpdateAnswers applies a partial form edit.
func (h *Handler) UpdateAnswers(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	var patch funnel.AnswersPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.respond(c, func() (session.View, error) {
		return h.sessions.Update(c.Request.Context(), id, patch)
	})
}

// Advance moves forward. On the form the body must carry the full answers;
// elsewhere it may be empty.
func (h *Handler) Advance(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	var answers *funnel.Answers
	var body funnel.Answers
	switch err := c.ShouldBindJSON(&body); {
	case err == nil:
		answers = &body
	case errors.Is(err, io.EOF):
	default:
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	view, err := h.sessions.Advance(c.Request.Context(), id, answers)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.counters.Advance()
	if view.Step == funnel.StepFirstCard && answers != nil {
		h.counters.FormCompleted()
	}
	c.JSON(http.StatusOK, view)
}

// Retreat moves one step back.
func (h *Handler) Retreat(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, func() (session.View, error) {
		view, err := h.sessions.Retreat(c.Request.Context(), id)
		if err == nil {
			h.counters.Retreat()
		}
		return view, err
	})
}

// Decline clears the answers and returns to the form.
func (h *Handler) Decline(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, func() (session.View, error) {
		view, err := h.sessions.Decline(c.Request.Context(), id)
		if err == nil {
			h.counters.Decline()
		}
		return view, err
	})
}

// Back performs a native back navigation.
func (h *Handler) Back(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, func() (session.View, error) {
		return h.sessions.Back(c.Request.Context(), id)
	})
}

// Forward performs a native forward navigation.
func (h *Handler) Forward(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, func() (session.View, error) {
		return h.sessions.Forward(c.Request.Context(), id)
	})
}

// SelectPlan changes the selected offer plan.
func (h *Handler) SelectPlan(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	var req selectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	h.respond(c, func() (session.View, error) {
		return h.sessions.SelectPlan(c.Request.Context(), id, req.Plan)
	})
}

// Continue confirms the selected plan. No payment is taken.
func (h *Handler) Continue(c *gin.Context) {
	id, ok := h.session(c)
	if !ok {
		return
	}
	conf, err := h.sessions.Continue(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.counters.Continue(string(conf.Plan.Type))
	c.JSON(http.StatusOK, conf)
}

// Stats reports the funnel counters.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.counters.Snapshot())
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respond(c *gin.Context, fn func() (session.View, error)) {
	view, err := fn()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) session(c *gin.Context) (string, bool) {
	id, ok := getSessionID(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "session_error", "session missing", nil))
	}
	return id, ok
}

func (h *Handler) fail(c *gin.Context, err error) {
	abortWithError(c, fromAppError(err))
}
