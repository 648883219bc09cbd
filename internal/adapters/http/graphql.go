package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/core/usecases"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
// Every resolver is scoped to the authenticated owner in the context.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"traveler_name":       &graphql.Field{Type: graphql.String},
			"destination_city":    &graphql.Field{Type: graphql.String},
			"destination_country": &graphql.Field{Type: graphql.String},
			"hotel_name":          &graphql.Field{Type: graphql.String},
			"flight_number":       &graphql.Field{Type: graphql.String},
			"package_type":        &graphql.Field{Type: graphql.String},
			"total_price":         &graphql.Field{Type: graphql.Float},
			"start_date":          &graphql.Field{Type: graphql.DateTime},
			"end_date":            &graphql.Field{Type: graphql.DateTime},
			"status":              &graphql.Field{Type: graphql.String},
			"created_at":          &graphql.Field{Type: graphql.DateTime},
		},
	})

	tripPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripPage",
		Fields: graphql.Fields{
			"items":       &graphql.Field{Type: graphql.NewList(tripType)},
			"total_count": &graphql.Field{Type: graphql.Int},
			"total_pages": &graphql.Field{Type: graphql.Int},
			"page":        &graphql.Field{Type: graphql.Int},
			"page_size":   &graphql.Field{Type: graphql.Int},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ArcSegment",
		Fields: graphql.Fields{
			"status": &graphql.Field{Type: graphql.String},
			"start":  &graphql.Field{Type: graphql.Float},
			"end":    &graphql.Field{Type: graphql.Float},
		},
	})

	breakdownType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StatusBreakdown",
		Fields: graphql.Fields{
			"total":           &graphql.Field{Type: graphql.Int},
			"completed_pct":   &graphql.Field{Type: graphql.Int},
			"upcoming_pct":    &graphql.Field{Type: graphql.Int},
			"cancelled_pct":   &graphql.Field{Type: graphql.Int},
			"completed_angle": &graphql.Field{Type: graphql.Float},
			"upcoming_angle":  &graphql.Field{Type: graphql.Float},
			"cancelled_angle": &graphql.Field{Type: graphql.Float},
			"segments":        &graphql.Field{Type: graphql.NewList(segmentType)},
		},
	})

	weekType := graphql.NewObject(graphql.ObjectConfig{
		Name: "WeeklyBucket",
		Fields: graphql.Fields{
			"week":  &graphql.Field{Type: graphql.String},
			"start": &graphql.Field{Type: graphql.DateTime},
			"end":   &graphql.Field{Type: graphql.DateTime},
			"trips": &graphql.Field{Type: graphql.Int},
		},
	})

	dashboardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Dashboard",
		Fields: graphql.Fields{
			"total_trips":      &graphql.Field{Type: graphql.Int},
			"completed_count":  &graphql.Field{Type: graphql.Int},
			"cancelled_count":  &graphql.Field{Type: graphql.Int},
			"upcoming_count":   &graphql.Field{Type: graphql.Int},
			"total_revenue":    &graphql.Field{Type: graphql.Float},
			"status_breakdown": &graphql.Field{Type: breakdownType},
			"weekly_trips":     &graphql.Field{Type: graphql.NewList(weekType)},
			"recent_trips":     &graphql.Field{Type: graphql.NewList(tripType)},
			"generated_at":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	destinationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Destination",
		Fields: graphql.Fields{
			"slug":         &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"city":         &graphql.Field{Type: graphql.String},
			"country":      &graphql.Field{Type: graphql.String},
			"image_url":    &graphql.Field{Type: graphql.String},
			"things_to_do": &graphql.Field{Type: graphql.Int},
		},
	})

	packageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TravelPackage",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"title":           &graphql.Field{Type: graphql.String},
			"hotel_name":      &graphql.Field{Type: graphql.String},
			"flight_number":   &graphql.Field{Type: graphql.String},
			"package_type":    &graphql.Field{Type: graphql.String},
			"start_date":      &graphql.Field{Type: graphql.DateTime},
			"end_date":        &graphql.Field{Type: graphql.DateTime},
			"price":           &graphql.Field{Type: graphql.Float},
			"available_spots": &graphql.Field{Type: graphql.Int},
		},
	})

	detailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DestinationDetail",
		Fields: graphql.Fields{
			"destination": &graphql.Field{Type: destinationType},
			"packages":    &graphql.Field{Type: graphql.NewList(packageType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trips": &graphql.Field{
				Type:        tripPageType,
				Description: "One page of the caller's trips, newest first",
				Args: graphql.FieldConfigArgument{
					"q":        &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"pageSize": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: deps.PageSize},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := UserFromContext(p.Context)
					if !ok {
						return nil, domain.ErrUnauthorized
					}
					page := p.Args["page"].(int)
					if page < 1 {
						page = 1
					}
					size := p.Args["pageSize"].(int)
					if deps.MaxPageSize > 0 && size > deps.MaxPageSize {
						size = deps.MaxPageSize
					}
					return deps.Trips.List(p.Context, usecases.TripQuery{
						OwnerID:  user.ID,
						Search:   p.Args["q"].(string),
						Page:     page,
						PageSize: size,
					})
				},
			},
			"trip": &graphql.Field{
				Type:        tripType,
				Description: "A single trip owned by the caller",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := UserFromContext(p.Context)
					if !ok {
						return nil, domain.ErrUnauthorized
					}
					return deps.Trips.Get(p.Context, user.ID, p.Args["id"].(string))
				},
			},
			"dashboard": &graphql.Field{
				Type:        dashboardType,
				Description: "Aggregated metrics over the caller's trips",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := UserFromContext(p.Context)
					if !ok {
						return nil, domain.ErrUnauthorized
					}
					return deps.Dashboards.Get(p.Context, user.ID)
				},
			},
			"destinations": &graphql.Field{
				Type:        graphql.NewList(destinationType),
				Description: "The destination catalog",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Destinations.List(p.Context)
				},
			},
			"destination": &graphql.Field{
				Type:        detailType,
				Description: "A destination with its travel packages",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Destinations.Detail(p.Context, p.Args["slug"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
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

		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return c.JSON(result)
	}
}
