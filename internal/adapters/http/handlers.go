package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
)

// CollectionState is the in-progress collection as seen by clients.
type CollectionState struct {
	Collecting bool                  `json:"collecting"`
	Vertices   domain.VertexSequence `json:"vertices"`
}

func collectionState(deps *Dependencies) CollectionState {
	seq := deps.Editor.Pending()
	if seq == nil {
		seq = domain.VertexSequence{}
	}
	return CollectionState{Collecting: deps.Editor.Collecting(), Vertices: seq}
}

// queryPoint reads the required lat/lng query parameters.
func queryPoint(c *fiber.Ctx) (domain.Point, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return domain.Point{}, errors.New("lat and lng are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Point{}, errors.New("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return domain.Point{}, errors.New("lng must be a number")
	}
	p := domain.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return domain.Point{}, domain.ErrInvalidPoint
	}
	return p, nil
}

// ---- Collection ----

// BeginCollectionHandler starts collecting vertices.
func BeginCollectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Editor.BeginCollection(c.UserContext())
		return c.JSON(collectionState(deps))
	}
}

// AddVertexHandler appends one vertex to the collection.
func AddVertexHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p domain.Point
		if err := c.BodyParser(&p); err != nil {
			return errBadRequest(c, "body must be {\"lat\":..,\"lng\":..}")
		}
		if err := deps.Editor.AddVertex(c.UserContext(), p); err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(collectionState(deps))
	}
}

// EndCollectionHandler commits the collection. A discarded collection
// answers 204.
func EndCollectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		poly, err := deps.Editor.EndCollection(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		if poly == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusCreated).JSON(poly)
	}
}

// GetCollectionHandler returns the in-progress collection.
func GetCollectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(collectionState(deps))
	}
}

// ---- Events ----

// DispatchEventHandler applies one input event.
func DispatchEventHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ev domain.InputEvent
		if err := c.BodyParser(&ev); err != nil {
			return errBadRequest(c, "invalid event body")
		}
		res, err := deps.Dispatcher.Dispatch(c.UserContext(), &ev)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(res)
	}
}

// ---- Polygons ----

// ListPolygonsHandler returns the live polygons in creation order.
func ListPolygonsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c)
		page, pg := paginate(deps.Editor.List(), offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetPolygonHandler returns a single polygon.
func GetPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		poly, err := deps.Editor.Get(c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(poly)
	}
}

// DeletePolygonHandler removes a polygon. Unknown IDs are not an error.
func DeletePolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok := deps.Editor.DeletePolygon(c.UserContext(), c.Params("id"))
		return c.JSON(fiber.Map{"deleted": ok})
	}
}

// ImportPolygonHandler commits a polygon from a text export in the body.
func ImportPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := string(c.Body())
		if strings.TrimSpace(body) == "" {
			return errBadRequest(c, "body must contain a text export")
		}
		poly, err := deps.Exports.Import(c.UserContext(), body)
		if err != nil {
			return errFromDomain(c, err)
		}
		if poly == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusCreated).JSON(poly)
	}
}

// ---- Vertices ----

// NearestVertexHandler returns the vertex closest to ?lat&lng.
func NearestVertexHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		idx, vertex, err := deps.Editor.NearestVertex(c.Params("id"), ref)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"index": idx, "vertex": vertex})
	}
}

// DeleteNearestVertexHandler removes the vertex closest to ?lat&lng.
func DeleteNearestVertexHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		ok, err := deps.Editor.DeleteNearestVertex(c.UserContext(), c.Params("id"), ref)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"deleted": ok})
	}
}

// DeleteVertexHandler removes the vertex at :index.
func DeleteVertexHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idx, err := c.ParamsInt("index")
		if err != nil {
			return errBadRequest(c, "index must be an integer")
		}
		ok, err := deps.Editor.DeleteVertex(c.UserContext(), c.Params("id"), idx)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"deleted": ok})
	}
}

// ---- Appearance ----

// CycleZOrderHandler sinks a polygon one level.
func CycleZOrderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		z, err := deps.Editor.CycleZOrder(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"z_index": z})
	}
}

// SetHighlightHandler switches a polygon's style.
func SetHighlightHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Highlighted *bool `json:"highlighted"`
		}
		if err := c.BodyParser(&body); err != nil || body.Highlighted == nil {
			return errBadRequest(c, "body must be {\"highlighted\": true|false}")
		}
		id := c.Params("id")
		if err := deps.Editor.SetHighlight(c.UserContext(), id, *body.Highlighted); err != nil {
			return errFromDomain(c, err)
		}
		poly, err := deps.Editor.Get(id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"id": poly.ID, "highlighted": poly.Highlighted, "style": poly.Style()})
	}
}

// ---- Exports ----

func sendRendering(c *fiber.Ctx, r *usecases.Rendering) error {
	c.Set(fiber.HeaderContentType, r.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+r.Filename+`"`)
	return c.Send(r.Body)
}

// ExportHandler serves a polygon export in ?format=text|geojson|kml.
func ExportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := usecases.ParseFormat(c.Query("format"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		r, err := deps.Exports.Render(c.UserContext(), c.Params("id"), format)
		if err != nil {
			return errFromDomain(c, err)
		}
		return sendRendering(c, r)
	}
}

// StringExportHandler serves the text export. Kept for clients of the
// older path.
func StringExportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := deps.Exports.Render(c.UserContext(), c.Params("id"), domain.FormatText)
		if err != nil {
			return errFromDomain(c, err)
		}
		return sendRendering(c, r)
	}
}

// ArchiveHandler stores an export. A workflow-backed archive answers 202.
func ArchiveHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := usecases.ParseFormat(c.Query("format"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		res, err := deps.Exports.Archive(c.UserContext(), c.Params("id"), format)
		if err != nil {
			return errFromDomain(c, err)
		}
		if res.WorkflowID != "" {
			return c.Status(fiber.StatusAccepted).JSON(res)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ListArchivesHandler lists archived exports of a polygon.
func ListArchivesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := deps.Exports.ListArchived(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		if recs == nil {
			recs = []domain.ExportRecord{}
		}
		return c.JSON(recs)
	}
}

// ---- Menu ----

// OpenMenuHandler binds the context menu to a polygon.
func OpenMenuHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			PolygonID string        `json:"polygon_id"`
			Point     *domain.Point `json:"point"`
		}
		if err := c.BodyParser(&body); err != nil || body.PolygonID == "" || body.Point == nil {
			return errBadRequest(c, "body must be {\"polygon_id\":..,\"point\":{\"lat\":..,\"lng\":..}}")
		}
		menu, err := deps.Menus.Open(c.UserContext(), body.PolygonID, *body.Point)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(menu)
	}
}

// InvokeMenuHandler runs a menu action. A token from a replaced menu is
// rejected with 409.
func InvokeMenuHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := domain.MenuAction(c.Params("action"))
		res, err := deps.Menus.Invoke(c.UserContext(), c.Params("token"), action)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(res)
	}
}

// CloseMenuHandler hides the menu.
func CloseMenuHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Menus.Close()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---- Viewport ----

// GetViewportHandler returns the stored map view, or the default.
func GetViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := deps.Viewports.Restore(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(v)
	}
}

// PutViewportHandler stores the map view.
func PutViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v domain.Viewport
		if err := c.BodyParser(&v); err != nil {
			return errBadRequest(c, "body must be {\"zoom\":..,\"latitude\":..,\"longitude\":..}")
		}
		if err := deps.Viewports.Update(c.UserContext(), v); err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(v)
	}
}

// DeleteViewportHandler forgets the stored map view.
func DeleteViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Viewports.Clear(c.UserContext()); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
