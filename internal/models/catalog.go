// ABOUTME: Catalog types: categories, products, variants, images, landing sections
// ABOUTME: Mirrors the JSON shapes served by the storefront REST API

package models

// Gender of a product variant
type Gender string

const (
	GenderUnisex Gender = "UNISEX"
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderKids   Gender = "KIDS"
)

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Color         string        `json:"color,omitempty"`
	Order         int           `json:"order"`
	IsActive      bool          `json:"isActive"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

type Subcategory struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	URL       string `json:"url"`
	PublicID  string `json:"publicId"`
	AltText   string `json:"altText,omitempty"`
	Order     int    `json:"order"`
	IsActive  bool   `json:"isActive"`
}

type ProductVariant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	SKU       string  `json:"sku"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Gender    Gender  `json:"gender"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	IsActive  bool    `json:"isActive"`
	Product   *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"product,omitempty"`
}

// Product is a catalog entry; prices live on its variants and are in EUR
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	CategoryID    string           `json:"categoryId"`
	SubcategoryID string           `json:"subcategoryId,omitempty"`
	IsFeatured    bool             `json:"isFeatured"`
	IsActive      bool             `json:"isActive"`
	Category      *Category        `json:"category,omitempty"`
	Subcategory   *Subcategory     `json:"subcategory,omitempty"`
	Images        []ProductImage   `json:"images"`
	Variants      []ProductVariant `json:"variants"`
	Tags          []struct {
		Tag Tag `json:"tag"`
	} `json:"tags,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MinPrice returns the lowest active variant price, or false when none is sold
func (p *Product) MinPrice() (float64, bool) {
	found := false
	var min float64
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		if !found || v.Price < min {
			min = v.Price
			found = true
		}
	}
	return min, found
}

// TotalStock sums stock across active variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		if v.IsActive {
			total += v.Stock
		}
	}
	return total
}

type SectionImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Alt      string `json:"alt"`
	Order    int    `json:"order"`
}

// LandingSection is a block of the home page managed from the back-office
type LandingSection struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	TextPosition string         `json:"textPosition"`
	BgColor      string         `json:"bgColor"`
	Order        int            `json:"order"`
	IsActive     bool           `json:"isActive"`
	Images       []SectionImage `json:"images"`
}

// Home bundles what the landing page shows
type Home struct {
	Sections   []LandingSection `json:"sections"`
	Featured   []Product        `json:"featured"`
	Categories []Category       `json:"categories"`
}
