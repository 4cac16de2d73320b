package telemetry

// Span names.
const (
	SpanExportRender    = "export.render"
	SpanViewportRestore = "viewport.restore"
	SpanViewportUpdate  = "viewport.update"
	SpanDispatch        = "input.dispatch"
)

// Span attribute keys.
const (
	AttrExportFormat    = "export.format"
	AttrViewportZoom    = "viewport.zoom"
	AttrViewportDefault = "viewport.default"
	AttrInputKind       = "input.kind"
)
