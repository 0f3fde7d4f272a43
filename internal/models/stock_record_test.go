package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLocationClass(t *testing.T) {
	cases := []struct {
		location string
		want     LocationClass
	}{
		{"PROD_1", LocationProduction},
		{"PROD_MONTAJ", LocationProduction},
		{"FIT_2", LocationFitting},
		{"DEPO_A", LocationWarehouse},
		{"WAREHOUSE_A", LocationWarehouse},
		{"", LocationWarehouse},
		{"prod_1", LocationWarehouse}, // prefix büyük harf duyarlı
	}

	for _, c := range cases {
		assert.Equal(t, c.want, DeriveLocationClass(c.location), "location=%q", c.location)
	}
}

func TestInitialProgress(t *testing.T) {
	assert.Equal(t, ProgressProductionPending, OrderTypeFull.InitialProgress())
	assert.Equal(t, ProgressOrderPlaced, OrderTypeSpare.InitialProgress())
}
