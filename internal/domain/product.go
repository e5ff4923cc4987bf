package domain

// Product is a catalog entry. Products are immutable once loaded from the
// fixture; Price keeps the display form ("৳ 4,50,000") and is parsed on
// demand by the catalog package.
type Product struct {
	ID          int      `json:"id" yaml:"id" validate:"gt=0"`
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Price       string   `json:"price" yaml:"price" validate:"required"`
	Category    string   `json:"category" yaml:"category" validate:"required"`
	Description string   `json:"description" yaml:"description" validate:"required"`
	Images      []string `json:"images" yaml:"images" validate:"required,min=1,dive,required"`
	Sizes       []string `json:"sizes,omitempty" yaml:"sizes" validate:"omitempty,unique,dive,required"`
	Colors      []string `json:"colors,omitempty" yaml:"colors" validate:"omitempty,unique,dive,required"`
	Material    string   `json:"material,omitempty" yaml:"material"`
	InStock     bool     `json:"in_stock" yaml:"in_stock"`
	Featured    bool     `json:"featured" yaml:"featured"`
}

// HasSize reports whether size is one of the product's offered sizes.
// An empty size always matches.
func (p Product) HasSize(size string) bool {
	return size == "" || contains(p.Sizes, size)
}

// HasColor reports whether color is one of the product's offered colors.
// An empty color always matches.
func (p Product) HasColor(color string) bool {
	return color == "" || contains(p.Colors, color)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
