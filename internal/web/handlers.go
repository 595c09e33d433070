package web

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"tsn-cnc/internal/app"
	"tsn-cnc/internal/credstore"
	"tsn-cnc/internal/models"
	"tsn-cnc/internal/transport"
)

// Backend is what the HTTP layer needs from the application.
type Backend interface {
	Switches() []models.Switch
	AddSwitch(rec models.CredentialRecord) (models.Switch, error)
	RemoveSwitch(id string) error
	SavePort(p models.Port) (models.Switch, error)
	Reload() error
	RefreshSwitch(id string) (models.Switch, error)
}

const (
	passwordHeader = "webcncpassword"
	removeHeader   = "removeswitch"
)

type handlers struct {
	backend Backend
	auth    *Auth
	logger  *slog.Logger
}

func SetupRoutes(a *fiber.App, backend Backend, auth *Auth, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{backend: backend, auth: auth, logger: logger}

	// Browsers cannot send the API header, so the status page asks for the
	// same password through basic auth. The user name is ignored.
	a.Get("/", basicauth.New(basicauth.Config{
		Realm: "webcnc",
		Authorizer: func(_, password string) bool {
			return auth.Check(password)
		},
	}), h.index)

	api := a.Group("/webcnc/api")
	api.Post("/validatepassword", h.validatePassword)
	api.Get("/getswitches", h.requirePassword, h.getSwitches)
	api.Put("/addswitch", h.requirePassword, h.addSwitch)
	api.Delete("/removeswitch", h.requirePassword, h.removeSwitch)
	api.Post("/saveport", h.requirePassword, h.savePort)
	api.Post("/reloadbackend", h.requirePassword, h.reloadBackend)
	api.Post("/refreshswitch/:id", h.requirePassword, h.refreshSwitch)
}

func (h *handlers) requirePassword(c *fiber.Ctx) error {
	if !h.auth.Check(c.Get(passwordHeader)) {
		h.logger.Warn("rejected api call", "path", c.Path(), "remote", c.IP())
		return c.Status(fiber.StatusUnauthorized).SendString("Password is incorrect")
	}
	return c.Next()
}

func (h *handlers) validatePassword(c *fiber.Ctx) error {
	if !h.auth.Check(strings.TrimSpace(string(c.Body()))) {
		return c.Status(fiber.StatusUnauthorized).SendString("Password is incorrect")
	}
	return c.SendString("Password is correct")
}

func (h *handlers) getSwitches(c *fiber.Ctx) error {
	return c.JSON(h.backend.Switches())
}

func (h *handlers) addSwitch(c *fiber.Ctx) error {
	var rec models.CredentialRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Malformed switch credentials: " + err.Error())
	}
	s, err := h.backend.AddSwitch(rec)
	var verr *models.ValidationError
	var perr *transport.ProtocolError
	switch {
	case err == nil:
		return c.JSON(s)
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).SendString(verr.Error())
	case errors.Is(err, app.ErrDuplicateIdentifier), errors.Is(err, credstore.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).SendString("A switch with this identifier already exists")
	case errors.As(err, &perr):
		h.logger.Warn("add switch failed", "switch", rec.Identifier, "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Couldn't reach switch")
	default:
		h.logger.Error("add switch failed", "switch", rec.Identifier, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("An unknown error occurred")
	}
}

func (h *handlers) removeSwitch(c *fiber.Ctx) error {
	id := c.Get(removeHeader)
	err := h.backend.RemoveSwitch(id)
	switch {
	case err == nil:
		return c.SendString("Switch successfully deleted")
	case errors.Is(err, credstore.ErrNotFound):
		return c.Status(fiber.StatusBadRequest).SendString("Error: Switch does not exist in the backend")
	default:
		h.logger.Error("remove switch failed", "switch", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("An unknown error occurred")
	}
}

func (h *handlers) savePort(c *fiber.Ctx) error {
	var p models.Port
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Malformed port configuration: " + err.Error())
	}
	_, err := h.backend.SavePort(p)
	var verr *models.ValidationError
	var perr *transport.ProtocolError
	switch {
	case err == nil:
		return c.SendString("Port configuration saved successfully.")
	case errors.Is(err, app.ErrUnknownSwitch):
		return c.Status(fiber.StatusBadRequest).SendString("This switch does not exist in the backend")
	case errors.Is(err, app.ErrUnreachable):
		return c.Status(fiber.StatusBadRequest).SendString("This switch is currently unreachable")
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).SendString(verr.Error())
	case errors.As(err, &perr):
		h.logger.Warn("save port failed", "switch", p.SwitchID(), "port", p.Number(), "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Couldn't set values on switch: " + err.Error())
	default:
		h.logger.Error("save port failed", "switch", p.SwitchID(), "port", p.Number(), "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("An unknown error occurred")
	}
}

func (h *handlers) reloadBackend(c *fiber.Ctx) error {
	if err := h.backend.Reload(); err != nil {
		h.logger.Error("reload failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Backend reload incomplete: " + err.Error())
	}
	return c.SendString("Backend reloaded successfully")
}

func (h *handlers) refreshSwitch(c *fiber.Ctx) error {
	s, err := h.backend.RefreshSwitch(c.Params("id"))
	switch {
	case err == nil:
		return c.JSON(s)
	case errors.Is(err, app.ErrUnknownSwitch), errors.Is(err, credstore.ErrNotFound):
		return c.Status(fiber.StatusBadRequest).SendString("This switch does not exist in the backend")
	default:
		h.logger.Error("refresh switch failed", "switch", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("An unknown error occurred")
	}
}
