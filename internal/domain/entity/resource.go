package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ResourceKind identifica el tipo de recurso inventariable. Solo existen dos variantes.
type ResourceKind int

const (
	ResourceProduct ResourceKind = iota + 1
	ResourceMaterial
)

// String devuelve el nombre canónico usado en API y base de datos.
func (k ResourceKind) String() string {
	switch k {
	case ResourceProduct:
		return "product"
	case ResourceMaterial:
		return "material"
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// Valid indica si k es una de las variantes conocidas.
func (k ResourceKind) Valid() bool {
	return k == ResourceProduct || k == ResourceMaterial
}

// SortKey define el orden global de adquisición de bloqueos (product antes que material).
func (k ResourceKind) SortKey() int { return int(k) }

// ParseResourceKind convierte "product" / "material" (sin distinguir mayúsculas) en ResourceKind.
func ParseResourceKind(s string) (ResourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "product":
		return ResourceProduct, nil
	case "material":
		return ResourceMaterial, nil
	}
	return 0, fmt.Errorf("tipo de recurso desconocido: %q", s)
}

// MarshalText permite serializar el tipo como string en JSON.
func (k ResourceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("tipo de recurso inválido: %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText acepta "product" o "material".
func (k *ResourceKind) UnmarshalText(b []byte) error {
	v, err := ParseResourceKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Estados de un recurso.
const (
	ResourceStatusActive   = "Active"
	ResourceStatusInactive = "Inactive"
)

// ResourceRef es la identidad de un recurso dentro del inventario.
type ResourceRef struct {
	Kind ResourceKind `json:"resource_type"`
	ID   int64        `json:"resource_id"`
}

// Less ordena referencias por (kind, id); es el orden de bloqueo para operaciones sobre dos recursos.
func (r ResourceRef) Less(o ResourceRef) bool {
	if r.Kind.SortKey() != o.Kind.SortKey() {
		return r.Kind.SortKey() < o.Kind.SortKey()
	}
	return r.ID < o.ID
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// Resource representa un Product o un Material de una sucursal.
// Stock y UnitCost solo se modifican desde el libro de entradas (o la deducción de pedidos, externa).
// Para Product, UnitCost corresponde a la columna price.
type Resource struct {
	Kind      ResourceKind
	ID        int64
	BranchID  int64
	Name      string
	Unit      string
	Stock     decimal.Decimal
	UnitCost  decimal.Decimal
	Status    string
	Active    bool
	UpdatedAt time.Time
	UpdatedBy *int64
}

// Ref devuelve la identidad del recurso.
func (r *Resource) Ref() ResourceRef {
	return ResourceRef{Kind: r.Kind, ID: r.ID}
}

// Usable indica si el recurso puede recibir stock o alimentar un menú.
func (r *Resource) Usable() bool {
	return r != nil && r.Active && r.Status != ResourceStatusInactive
}
