package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"tsn-cnc/internal/models"
	"tsn-cnc/internal/portname"
)

//go:embed templates/*.html
var templateFiles embed.FS

// NewEngine builds the template engine for the status page.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("portLabel", portname.Normalize)
	engine.AddFunc("gateMask", gateMask)
	return engine
}

// gateMask renders gate states as a string, gate 0 first, "o" for open.
func gateMask(e models.GCLEntry) string {
	gates := e.Gates()
	out := make([]byte, len(gates))
	for i, open := range gates {
		out[i] = '-'
		if open {
			out[i] = 'o'
		}
	}
	return string(out)
}

type switchView struct {
	Switch    models.Switch
	Neighbors []models.Neighbor
	Ports     []models.Port
}

func (h *handlers) index(c *fiber.Ctx) error {
	switches := h.backend.Switches()
	views := make([]switchView, 0, len(switches))
	reachable := 0
	for _, s := range switches {
		if s.Reachable() {
			reachable++
		}
		views = append(views, switchView{Switch: s, Neighbors: s.Neighbors(), Ports: s.Ports()})
	}
	return c.Render("index", fiber.Map{
		"Switches":    views,
		"Reachable":   reachable,
		"Unreachable": len(switches) - reachable,
	})
}
