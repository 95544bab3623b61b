package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/pkg/schema"
)

func propertyDocSchema() *schema.DocumentSchema {
	return &schema.DocumentSchema{
		Steps: map[string]*schema.StepSchema{
			"general": {Fields: map[string]*schema.Field{
				"title": {Type: schema.String(), Required: true},
				"price": {Type: schema.Float(), Min: floatPtr(0)},
			}},
			"location": {Fields: map[string]*schema.Field{
				"city": {Type: schema.String(), Required: true},
			}},
		},
	}
}

func TestValidateDocument_AllStepsStrict(t *testing.T) {
	ds := propertyDocSchema()

	res := schema.ValidateDocument(ds, map[string]any{"title": "Ocean Villa"})
	assert.False(t, res.Valid)
	assert.True(t, res.StepResults["general"].Valid)
	assert.False(t, res.StepResults["location"].Valid)

	res = schema.ValidateDocument(ds, map[string]any{"title": "Ocean Villa", "city": "Punta Cana"})
	assert.True(t, res.Valid)
	assert.Empty(t, res.CrossErrors)
}

func TestValidateDocument_CrossRules(t *testing.T) {
	ds := propertyDocSchema()
	ds.CrossRules = []schema.CrossRule{
		schema.RequireWhenPresent("price", "title"),
	}

	// Title present without a price trips the rule even though every step
	// schema passes on its own.
	res := schema.ValidateDocument(ds, map[string]any{"title": "Ocean Villa", "city": "Punta Cana"})
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.CrossErrors["price"])
	assert.True(t, res.StepResults["general"].Valid)

	// No trigger, no rule.
	res = schema.ValidateDocument(ds, map[string]any{"city": "Punta Cana"})
	assert.Empty(t, res.CrossErrors)

	// Both present satisfies it.
	res = schema.ValidateDocument(ds, map[string]any{"title": "Ocean Villa", "city": "Punta Cana", "price": 1.0})
	assert.True(t, res.Valid)
}

func TestValidateDocument_CustomCrossRule(t *testing.T) {
	ds := propertyDocSchema()
	ds.CrossRules = []schema.CrossRule{{
		Name: "price-floor-for-villas",
		Check: func(data map[string]any) []*schema.FieldError {
			if data["type"] == "villa" {
				if p, ok := data["price"].(float64); ok && p < 100000 {
					return []*schema.FieldError{{
						Field:      "price",
						Kind:       schema.ViolationRangeViolation,
						Constraint: ">= 100000",
					}}
				}
			}
			return nil
		},
	}}

	res := schema.ValidateDocument(ds, map[string]any{
		"title": "Ocean Villa",
		"city":  "Punta Cana",
		"type":  "villa",
		"price": 50000.0,
	})
	assert.False(t, res.Valid)
	assert.Contains(t, res.CrossErrors["price"], "price must be within >= 100000")
}

func TestValidateDocument_NilSchema(t *testing.T) {
	res := schema.ValidateDocument(nil, map[string]any{"anything": true})
	assert.True(t, res.Valid)
}
