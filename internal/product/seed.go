package product

import "github.com/shopspring/decimal"

func ptrString(s string) *string { return &s }

func ptrInt(i int) *int { return &i }

// SampleCatalog is the demo catalog used to seed empty databases. Its ids
// line up with the ids the recommendation stub refers to.
func SampleCatalog() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Linen Sofa",
			Description: "Three-seat sofa with washable linen covers",
			Price:       decimal.RequireFromString("899.00"),
			Category:    ptrString("Seating"),
			Brand:       ptrString("Lumen"),
			Dimensions:  ptrString("220x95x85 cm"),
			Image:       ptrString("/media/examples/sofa.png"),
			StoreID:     ptrInt(1),
		},
		{
			ID:          2,
			Name:        "Brass Floor Lamp",
			Description: "Arc floor lamp with a brushed brass finish",
			Price:       decimal.RequireFromString("149.90"),
			Category:    ptrString("Lighting"),
			Image:       ptrString("/media/examples/lamp.png"),
			StoreID:     ptrInt(2),
		},
		{
			ID:          3,
			Name:        "Oak Coffee Table",
			Description: "Solid oak table with rounded corners",
			Price:       decimal.RequireFromString("259.00"),
			Category:    ptrString("Tables"),
			Brand:       ptrString("Nordhem"),
			Dimensions:  ptrString("110x60x42 cm"),
			Image:       ptrString("/media/examples/coffee-table.png"),
			StoreID:     ptrInt(2),
		},
		{
			ID:          4,
			Name:        "Ceramic Vase",
			Description: "Hand-glazed stoneware vase",
			Price:       decimal.RequireFromString("39.50"),
			Category:    ptrString("Decor"),
			Image:       ptrString("/media/examples/vase.png"),
		},
		{
			ID:          5,
			Name:        "Wool Rug",
			Description: "Flat-woven wool rug in natural tones",
			Price:       decimal.RequireFromString("320.00"),
			Category:    ptrString("Textiles"),
			Dimensions:  ptrString("200x300 cm"),
			Image:       ptrString("/media/examples/rug.png"),
			StoreID:     ptrInt(1),
		},
	}
}
