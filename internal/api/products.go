package api

import (
	"net/http"

	"food_app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest is the body of product create and update
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
	Category    string          `json:"category"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImagePath:   r.ImagePath,
		Category:    r.Category,
	}
}

// ListProductsHandler returns the catalog, filtered by ?category= and ?search=
func ListProductsHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context(), c.Query("category"), c.Query("search"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"products": list})
	}
}

// GetProductHandler returns one product
func GetProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		p, err := products.FindByID(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"product": p})
	}
}

// CreateProductHandler adds a product
func CreateProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if !bindJSON(c, &req) {
			return
		}
		p, err := products.Create(c.Request.Context(), req.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, gin.H{"message": "Product created successfully", "product": p})
	}
}

// UpdateProductHandler replaces a product's editable fields
func UpdateProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req ProductRequest
		if !bindJSON(c, &req) {
			return
		}
		p, err := products.Update(c.Request.Context(), id, req.input())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Product updated successfully", "product": p})
	}
}

// DeleteProductHandler removes a product
func DeleteProductHandler(products *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := products.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
