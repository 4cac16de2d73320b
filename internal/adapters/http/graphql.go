package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the editor.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	styleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Style",
		Fields: graphql.Fields{
			"fill_color":     &graphql.Field{Type: graphql.String},
			"fill_opacity":   &graphql.Field{Type: graphql.Float},
			"stroke_color":   &graphql.Field{Type: graphql.String},
			"stroke_opacity": &graphql.Field{Type: graphql.Float},
		},
	})

	polygonType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Polygon",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"vertices":    &graphql.Field{Type: graphql.NewList(pointType)},
			"z_index":     &graphql.Field{Type: graphql.Int},
			"highlighted": &graphql.Field{Type: graphql.Boolean},
			"revision":    &graphql.Field{Type: graphql.Int},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
			"style": &graphql.Field{
				Type: styleType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch poly := p.Source.(type) {
					case *domain.Polygon:
						return poly.Style(), nil
					case domain.Polygon:
						return poly.Style(), nil
					}
					return nil, nil
				},
			},
			"export": &graphql.Field{
				Type:        graphql.String,
				Description: "Text export, one (lat, lng) line per vertex",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var id string
					switch poly := p.Source.(type) {
					case *domain.Polygon:
						id = poly.ID
					case domain.Polygon:
						id = poly.ID
					}
					r, err := deps.Exports.Render(p.Context, id, domain.FormatText)
					if err != nil {
						return nil, err
					}
					return string(r.Body), nil
				},
			},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"zoom":      &graphql.Field{Type: graphql.Int},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	collectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Collection",
		Fields: graphql.Fields{
			"collecting": &graphql.Field{Type: graphql.Boolean},
			"vertices":   &graphql.Field{Type: graphql.NewList(pointType)},
		},
	})

	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"polygons": &graphql.Field{
				Type:        graphql.NewList(polygonType),
				Description: "Live polygons in creation order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Editor.List(), nil
				},
			},
			"polygon": &graphql.Field{
				Type:        polygonType,
				Description: "Get a polygon by ID",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Editor.Get(p.Args["id"].(string))
				},
			},
			"viewport": &graphql.Field{
				Type:        viewportType,
				Description: "Stored map view, or the default",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Viewports.Restore(p.Context)
				},
			},
			"collection": &graphql.Field{
				Type:        collectionType,
				Description: "The in-progress collection",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return collectionState(deps), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"deletePolygon": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Remove a polygon; false when it did not exist",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Editor.DeletePolygon(p.Context, p.Args["id"].(string)), nil
				},
			},
			"deleteVertex": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Remove a vertex by index; false at the deletion floor",
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"index": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Editor.DeleteVertex(p.Context, p.Args["id"].(string), p.Args["index"].(int))
				},
			},
			"cycleZOrder": &graphql.Field{
				Type:        graphql.Int,
				Description: "Sink a polygon one level; returns the new z-index",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Editor.CycleZOrder(p.Context, p.Args["id"].(string))
				},
			},
			"setHighlight": &graphql.Field{
				Type: polygonType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"highlighted": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					if err := deps.Editor.SetHighlight(p.Context, id, p.Args["highlighted"].(bool)); err != nil {
						return nil, err
					}
					return deps.Editor.Get(id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
