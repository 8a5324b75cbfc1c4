package regapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/middleware"
	"github.com/nfrund/signup/internal/registration"
)

// MsgMalformedRequest is returned when the body is not a JSON object.
const MsgMalformedRequest = "Malformed request body."

// Handler exposes a registration.RegistrationAPI over HTTP.
type Handler struct {
	api registration.RegistrationAPI
}

// NewHandler creates a new Handler.
func NewHandler(api registration.RegistrationAPI) *Handler {
	return &Handler{api: api}
}

// Register handles POST /api/register. The body is always a
// registration.RegisterResponse; the status code mirrors it.
func (h *Handler) Register(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	var req registration.RegisterRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		logger.Debug("Rejecting malformed registration body", "error", err)
		return c.JSON(http.StatusBadRequest, registration.RegisterResponse{Error: MsgMalformedRequest})
	}

	resp, err := h.api.Register(c.Request().Context(), req)
	if err != nil {
		logger.Error("Registration failed", "email", req.Email, "error", err)
		return c.JSON(http.StatusInternalServerError, registration.RegisterResponse{Error: MsgInternal})
	}

	switch {
	case resp.Success:
		return c.JSON(http.StatusCreated, resp)
	case resp.Error == MsgEmailTaken:
		return c.JSON(http.StatusConflict, resp)
	default:
		return c.JSON(http.StatusBadRequest, resp)
	}
}
