package models

// Size types a product can declare.
const (
	SizeTypeLetter = "letter"
	SizeTypeNumber = "number"
	SizeTypeNone   = ""
)

type Product struct {
	ProductID        string   `json:"productid" bson:"productid"`
	Name             string   `json:"name" bson:"name"`
	Price            float64  `json:"price" bson:"price"`
	Category         string   `json:"category" bson:"category"`
	SubCategory      string   `json:"subCategory" bson:"subCategory"`
	Image            string   `json:"image" bson:"image"`
	AdditionalImages []string `json:"additionalImages" bson:"additionalImages"`
	Stock            int      `json:"stock" bson:"stock"`
	Description      string   `json:"description" bson:"description"`
	HasSize          bool     `json:"hasSize" bson:"hasSize"`
	SizeType         string   `json:"sizeType,omitempty" bson:"sizeType,omitempty"`
	AvailableSizes   []string `json:"availableSizes" bson:"availableSizes"`
}

// PaginatedProducts is the envelope returned by every paginated catalog listing.
type PaginatedProducts struct {
	CurrentPage     int       `json:"currentPage"`
	TotalPages      int       `json:"totalPages"`
	ProductsPerPage int       `json:"productsPerPage"`
	TotalProducts   int64     `json:"totalProducts"`
	Products        []Product `json:"products"`
}
