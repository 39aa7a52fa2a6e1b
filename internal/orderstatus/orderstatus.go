// Package orderstatus maps order status keywords to their display label,
// color and icon.
//
// Two vocabularies exist: the upstream keys used by the back office and the
// Spanish keys used by the customer order history. They are kept apart on
// purpose until the upstream confirms a single enumeration.
package orderstatus

import "github.com/sergiomvp10/tutti-services/internal/domain"

type Presentation struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type Vocabulary struct {
	name    string
	pending string
	order   []string
	entries map[string]Presentation
}

func newVocabulary(name string, entries ...Presentation) *Vocabulary {
	v := &Vocabulary{name: name, pending: entries[0].Key, entries: make(map[string]Presentation, len(entries))}
	for _, e := range entries {
		v.order = append(v.order, e.Key)
		v.entries[e.Key] = e
	}
	return v
}

// Admin is the back-office vocabulary, keyed by upstream statuses.
var Admin = newVocabulary("admin",
	Presentation{Key: domain.StatusPending, Label: "Pendiente", Color: "bg-yellow-500", Icon: "Clock"},
	Presentation{Key: domain.StatusConfirmed, Label: "Confirmado", Color: "bg-blue-500", Icon: "CheckCircle"},
	Presentation{Key: domain.StatusPreparing, Label: "En Proceso", Color: "bg-purple-500", Icon: "Package"},
	Presentation{Key: domain.StatusReady, Label: "Listo", Color: "bg-indigo-500", Icon: "Truck"},
	Presentation{Key: domain.StatusDelivered, Label: "Entregado", Color: "bg-green-500", Icon: "CheckCircle"},
	Presentation{Key: domain.StatusCancelled, Label: "Cancelado", Color: "bg-red-500", Icon: "XCircle"},
)

// Customer is the order-history vocabulary.
var Customer = newVocabulary("customer",
	Presentation{Key: "pendiente", Label: "Pendiente", Color: "bg-yellow-500", Icon: "Clock"},
	Presentation{Key: "confirmado", Label: "Confirmado", Color: "bg-blue-500", Icon: "CheckCircle"},
	Presentation{Key: "en_proceso", Label: "En Proceso", Color: "bg-purple-500", Icon: "Package"},
	Presentation{Key: "enviado", Label: "Enviado", Color: "bg-indigo-500", Icon: "Truck"},
	Presentation{Key: "entregado", Label: "Entregado", Color: "bg-green-500", Icon: "CheckCircle"},
	Presentation{Key: "cancelado", Label: "Cancelado", Color: "bg-red-500", Icon: "XCircle"},
)

// ByName returns the vocabulary called "admin" or "customer".
func ByName(name string) (*Vocabulary, bool) {
	switch name {
	case Admin.name:
		return Admin, true
	case Customer.name:
		return Customer, true
	}
	return nil, false
}

func (v *Vocabulary) Name() string { return v.name }

// Lookup returns the presentation of status, or the pending entry when the
// status is unknown. The returned Key is always the input status.
func (v *Vocabulary) Lookup(status string) Presentation {
	p, ok := v.entries[status]
	if !ok {
		p = v.entries[v.pending]
		p.Key = status
	}
	return p
}

func (v *Vocabulary) Known(status string) bool {
	_, ok := v.entries[status]
	return ok
}

// All lists the entries in lifecycle order.
func (v *Vocabulary) All() []Presentation {
	out := make([]Presentation, 0, len(v.order))
	for _, k := range v.order {
		out = append(out, v.entries[k])
	}
	return out
}

// Cancellable reports whether the vocabulary offers a cancel action for status.
// Only the pending key qualifies.
func (v *Vocabulary) Cancellable(status string) bool {
	return status == v.pending
}
