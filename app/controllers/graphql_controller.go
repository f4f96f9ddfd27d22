package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/daliaibrahim58/greenmart/app/graph"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
)

// GraphQLController serves the read-only catalog schema at /api/graphql.
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(products *services.ProductService) (*GraphQLController, error) {
	schema, err := graph.NewSchema(products)
	if err != nil {
		return nil, err
	}
	return &GraphQLController{schema: schema}, nil
}

type graphqlInput struct {
	Query         string                 `json:"query" validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (gc *GraphQLController) Query(c *ctx.Context) {
	var in graphqlInput
	if !c.BindJSON(&in) {
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         gc.schema,
		RequestString:  in.Query,
		OperationName:  in.OperationName,
		VariableValues: in.Variables,
		Context:        c.Context(),
	})
	// GraphQL carries its errors in the body; the transport stays 200.
	c.JSON(http.StatusOK, result)
}
