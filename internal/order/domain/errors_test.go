package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{ErrSoldOut(Funghi), KindSoldOut},
		{ErrInsufficientStock(Margherita, 5, 3), KindInsufficientStock},
		{ErrKitchenDown(), KindKitchenDown},
	}
	for _, tc := range cases {
		kind, ok := KindOf(tc.err)
		assert.True(t, ok)
		assert.Equal(t, tc.kind, kind)
	}

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestParsePizza(t *testing.T) {
	p, ok := ParsePizza("salami")
	assert.True(t, ok)
	assert.Equal(t, Salami, p)

	_, ok = ParsePizza("salmai")
	assert.False(t, ok)
}

func TestInitialStockIsACopy(t *testing.T) {
	first := InitialStock()
	first[Margherita] = 0
	assert.Equal(t, 3, InitialStock()[Margherita])
}
