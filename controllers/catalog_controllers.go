package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/utils"
)

// CatalogController is the read-mostly catalog surface: categories,
// products and their options, with current prices and availability. Order
// submission reads the same rows fresh inside its own transaction.
type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

// GetAllCategories -> GET /categories
func (cc *CatalogController) GetAllCategories(c *gin.Context) {
	var categories []models.MenuCategory
	if err := cc.DB.Find(&categories).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// GetAllProducts -> GET /products (optional ?category_id= filter)
func (cc *CatalogController) GetAllProducts(c *gin.Context) {
	var products []models.Product
	query := cc.DB.Preload("Options")
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Find(&products).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// GetProductByID -> GET /products/:product_id
func (cc *CatalogController) GetProductByID(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	var product models.Product
	if err := cc.DB.Preload("Options").First(&product, productID).Error; err != nil {
		utils.RespondAppError(c, utils.ErrProductNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// CreateCategory -> POST /admin/categories
func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{Name: req.Name}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// CreateProduct -> POST /admin/products
func (cc *CatalogController) CreateProduct(c *gin.Context) {
	var req struct {
		CategoryID  uint    `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product := models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Available:   true,
	}
	if err := cc.DB.Create(&product).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Product created: %s (price=%.2f)", product.Name, product.Price)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> PATCH /admin/products/:product_id
// Price and availability changes take effect on the next submission;
// already-placed orders keep their captured prices.
func (cc *CatalogController) UpdateProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	var product models.Product
	if err := cc.DB.First(&product, productID).Error; err != nil {
		utils.RespondAppError(c, utils.ErrProductNotFound)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	if err := cc.DB.Save(&product).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// CreateOption -> POST /admin/products/:product_id/options
func (cc *CatalogController) CreateOption(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	var product models.Product
	if err := cc.DB.First(&product, productID).Error; err != nil {
		utils.RespondAppError(c, utils.ErrProductNotFound)
		return
	}

	var req struct {
		Name       string  `json:"name" binding:"required"`
		PriceDelta float64 `json:"price_delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	option := models.ProductOption{
		ProductID:  product.ID,
		Name:       req.Name,
		PriceDelta: req.PriceDelta,
		Active:     true,
	}
	if err := cc.DB.Create(&option).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Option created", option)
}

// UpdateOption -> PATCH /admin/options/:option_id
func (cc *CatalogController) UpdateOption(c *gin.Context) {
	optionID, ok := parseUintParam(c, "option_id")
	if !ok {
		return
	}

	var option models.ProductOption
	if err := cc.DB.First(&option, optionID).Error; err != nil {
		utils.RespondAppError(c, utils.ErrOptionNotFound)
		return
	}

	var req struct {
		Name       *string  `json:"name"`
		PriceDelta *float64 `json:"price_delta"`
		Active     *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		option.Name = *req.Name
	}
	if req.PriceDelta != nil {
		option.PriceDelta = *req.PriceDelta
	}
	if req.Active != nil {
		option.Active = *req.Active
	}

	if err := cc.DB.Save(&option).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Option updated", option)
}
