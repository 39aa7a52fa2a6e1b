package catalog

import "github.com/sergiomvp10/tutti-services/internal/domain"

// QuantitySelector is the quantity control of the detail dialog. Its value
// never drops below the product's minimum order and has no upper bound.
type QuantitySelector struct {
	min   float64
	step  float64
	value float64
}

func NewQuantitySelector(p domain.Product) *QuantitySelector {
	min := p.MinOrder
	if min < 0 {
		min = 0
	}
	return &QuantitySelector{min: min, step: 1, value: min}
}

func (q *QuantitySelector) Value() float64 { return q.value }

func (q *QuantitySelector) Min() float64 { return q.min }

func (q *QuantitySelector) Increment() float64 {
	q.value += q.step
	return q.value
}

// Decrement lowers the value by one step, stopping at the minimum.
func (q *QuantitySelector) Decrement() float64 {
	q.value -= q.step
	if q.value < q.min {
		q.value = q.min
	}
	return q.value
}

// Set takes a typed value, clamped to the minimum.
func (q *QuantitySelector) Set(v float64) float64 {
	if v < q.min {
		v = q.min
	}
	q.value = v
	return q.value
}
