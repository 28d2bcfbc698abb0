// Package graphql exposes a read-only GraphQL view of the catalogue.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"gearshop/app/models"
	"gearshop/app/services"
	gqlschema "gearshop/pkg/graphql"
	"gearshop/pkg/response"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return int(p.Source.(models.Product).ID), nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Name, nil
			},
		},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Description, nil
			},
		},
		"price": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Price.StringFixed(2), nil
			},
		},
		"category": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Category, nil
			},
		},
	},
})

// NewCatalogSchema builds the read-only catalogue schema backed by the
// catalog service.
func NewCatalogSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					page, _ := p.Args["page"].(int)
					items, _, err := catalog.Page(category, page)
					return items, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					product, err := catalog.Product(uint(id))
					if err != nil || product == nil {
						return nil, err
					}
					return *product, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Categories()
				},
			},
		},
	})

	return gqlschema.NewSchema(rootQuery)
}

// Handler serves GraphQL queries over HTTP (GET ?query= or POST body).
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" && r.Body != nil {
			buf := make([]byte, 64*1024)
			n, _ := r.Body.Read(buf)
			query = string(buf[:n])
		}

		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: query,
		})
		if len(result.Errors) > 0 {
			response.Error(w, http.StatusBadRequest, result.Errors[0].Message)
			return
		}
		response.Success(w, result.Data)
	}
}
