// ABOUTME: Query-string encoding for list endpoint filters
// ABOUTME: Zero values are omitted so the backend applies its own defaults

package api

import (
	"net/url"
	"strconv"

	"github.com/delcarajo/storefront/internal/models"
)

// ProductFilters narrows GET /products
type ProductFilters struct {
	Search        string
	CategoryID    string
	CategorySlug  string
	SubcategoryID string
	Gender        models.Gender
	Size          string
	IsFeatured    *bool
	InStock       *bool
	Page          int
	Limit         int
	SortBy        string // createdAt, price, name
	SortOrder     string // asc, desc
}

// Values encodes the filters as query parameters
func (f ProductFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "categoryId", f.CategoryID)
	setString(v, "categorySlug", f.CategorySlug)
	setString(v, "subcategoryId", f.SubcategoryID)
	setString(v, "gender", string(f.Gender))
	setString(v, "size", f.Size)
	setBool(v, "isFeatured", f.IsFeatured)
	setBool(v, "inStock", f.InStock)
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setString(v, "sortBy", f.SortBy)
	setString(v, "sortOrder", f.SortOrder)
	return v
}

// OrderFilters narrows the order listings
type OrderFilters struct {
	Status models.OrderStatus
	Page   int
	Limit  int
}

func (f OrderFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "status", string(f.Status))
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

func setBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}
