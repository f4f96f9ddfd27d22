// Package graph exposes the read-only catalog over GraphQL. Storefront
// widgets that only need a slice of the product data query this instead of
// over-fetching the REST catalog.
package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	gql "github.com/daliaibrahim58/greenmart/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		// gorm.Model's ID has no json tag, so the default resolver never
		// finds it. Resolve it by hand.
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch v := p.Source.(type) {
				case models.Product:
					return v.ID, nil
				case *models.Product:
					return v.ID, nil
				}
				return nil, nil
			},
		},
		"name":          &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.Float},
		"originalPrice": &graphql.Field{Type: graphql.Float},
		"salePrice":     &graphql.Field{Type: graphql.Float},
		"category":      &graphql.Field{Type: graphql.String},
		"image":         &graphql.Field{Type: graphql.String},
		"stock":         &graphql.Field{Type: graphql.Int},
		"rating":        &graphql.Field{Type: graphql.Float},
		"reviews":       &graphql.Field{Type: graphql.Int},
		"tags":          &graphql.Field{Type: graphql.NewList(graphql.String)},
		"features":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"isEcoFriendly": &graphql.Field{Type: graphql.Boolean},
		"isNew":         &graphql.Field{Type: graphql.Boolean},
		"isSale":        &graphql.Field{Type: graphql.Boolean},
		"inStock":       &graphql.Field{Type: graphql.Boolean},
	},
})

// NewSchema builds the catalog schema around the given product service.
func NewSchema(products *services.ProductService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type:        graphql.NewList(productType),
				Description: "Visible catalog products, optionally filtered by category.",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					return products.Catalog(category)
				},
			},
			"product": &graphql.Field{
				Type:        productType,
				Description: "A single product by id.",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := p.Args["id"].(int)
					if !ok || id < 1 {
						return nil, errors.New("invalid product id")
					}
					return products.Get(uint(id))
				},
			},
		},
	})
	return gql.NewSchema(query)
}
