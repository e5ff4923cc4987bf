package catalog

import "github.com/mhasan0505/sanslibyzebin/internal/domain"

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Sunshine Yellow Set", Price: "৳ 4,50,000", Category: "Fusion",
			Description: "A vibrant yellow fusion set featuring intricate embroidery.",
			Images:      []string{"/image01_yellow.png"}, InStock: true, Featured: true},
		{ID: 2, Name: "Royal Blue Ensemble", Price: "৳ 2,80,000", Category: "Sarees",
			Description: "Elegant royal blue saree with silver zari work.",
			Images:      []string{"/image03_blue.png"}, InStock: true},
		{ID: 3, Name: "Golden Hour Lehenga", Price: "৳ 3,20,000", Category: "Lehengas",
			Description: "Stunning golden lehenga that catches the light beautifully.",
			Images:      []string{"/image02_yellow.png"}, InStock: true, Featured: true},
		{ID: 4, Name: "Midnight Blue Gown", Price: "৳ 1,85,000", Category: "Gowns",
			Description: "A sophisticated midnight blue gown with a flowing drape.",
			Images:      []string{"/image04_blue.png"}, InStock: true},
	}
}

func ids(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
