package domain

import "time"

// InputKind enumerates the events forwarded by the map surface.
type InputKind string

const (
	KeyDown         InputKind = "key_down"
	KeyUp           InputKind = "key_up"
	MapClick        InputKind = "map_click"
	ShapeClick      InputKind = "shape_click"
	ShapeRightClick InputKind = "shape_right_click"
	ShapeMouseOver  InputKind = "shape_mouse_over"
	ShapeMouseOut   InputKind = "shape_mouse_out"
	PointerMove     InputKind = "pointer_move"
	MenuClose       InputKind = "menu_close"
)

// InputEvent is one pointer or keyboard event. Shape events carry the
// polygon ID instead of a handle to the shape.
type InputEvent struct {
	Kind    InputKind `json:"kind"`
	Key     int       `json:"key,omitempty"`
	Point   *Point    `json:"point,omitempty"`
	ShapeID string    `json:"shape_id,omitempty"`
	X       float64   `json:"x,omitempty"`
	Y       float64   `json:"y,omitempty"`
}

// MenuAction is an entry of the polygon context menu.
type MenuAction string

const (
	ActionDeleteVertex  MenuAction = "delete_vertex"
	ActionDeletePolygon MenuAction = "delete_polygon"
	ActionExport        MenuAction = "export"
)

// ContextMenu is a menu bound to one polygon for one invocation.
type ContextMenu struct {
	Token           string  `json:"token"`
	PolygonID       string  `json:"polygon_id"`
	Click           Point   `json:"click"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	CanDeleteVertex bool    `json:"can_delete_vertex"`
	NearestVertex   *int    `json:"nearest_vertex,omitempty"` // hover marker
}

// ExportFormat names a polygon rendering.
type ExportFormat string

const (
	FormatText    ExportFormat = "text"
	FormatGeoJSON ExportFormat = "geojson"
	FormatKML     ExportFormat = "kml"
)

// ExportRecord is an archived export.
type ExportRecord struct {
	ID        string       `json:"id"`
	PolygonID string       `json:"polygon_id"`
	Format    ExportFormat `json:"format"`
	Body      string       `json:"body"`
	CreatedAt time.Time    `json:"created_at"`
}

// SurfaceOp is a rendering request sent to the map surface.
type SurfaceOp string

const (
	OpAddPolygon    SurfaceOp = "add_polygon"
	OpRemovePolygon SurfaceOp = "remove_polygon"
	OpSetPath       SurfaceOp = "set_path"
	OpSetStyle      SurfaceOp = "set_style"
	OpSetZIndex     SurfaceOp = "set_z_index"
	OpShowPreview   SurfaceOp = "show_preview"
	OpClearPreview  SurfaceOp = "clear_preview"
)

// SurfaceCommand is the wire form of a surface request.
type SurfaceCommand struct {
	Op        SurfaceOp      `json:"op"`
	PolygonID string         `json:"polygon_id,omitempty"`
	Vertices  VertexSequence `json:"vertices,omitempty"`
	Style     *Style         `json:"style,omitempty"`
	ZIndex    *int           `json:"z_index,omitempty"`
	Time      time.Time      `json:"time"`
}
