package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"vfs-simulator/shell"
)

// Handler contains the HTTP handlers for the browser terminal.
type Handler struct {
	sessions *SessionManager
}

func NewHandler(sessions *SessionManager) *Handler {
	return &Handler{sessions: sessions}
}

type commandRequest struct {
	Line string `json:"line"`
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"sessions": len(h.sessions.List()),
	})
}

// HandleCreateSession handles POST /api/sessions.
func (h *Handler) HandleCreateSession(c echo.Context) error {
	reply, err := h.sessions.Create()
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(http.StatusCreated, reply)
}

// HandleCommand handles POST /api/sessions/:id/commands.
// The body carries exactly one input line.
func (h *Handler) HandleCommand(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.ContainsAny(req.Line, "\r\n") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "line must not contain line breaks"})
	}

	reply, err := h.sessions.Execute(c.Param("id"), req.Line)
	if err != nil {
		return mapSessionError(c, err)
	}
	return c.JSON(http.StatusOK, reply)
}

// HandleCloseSession handles DELETE /api/sessions/:id.
func (h *Handler) HandleCloseSession(c echo.Context) error {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		return mapSessionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapSessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, shell.ErrExited):
		return c.JSON(http.StatusGone, echo.Map{"error": "session has exited"})
	case errors.Is(err, ErrTooManySessions):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "too many open sessions, try again later"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
