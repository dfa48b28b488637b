package handlers

import (
	"io"
	"net/http"
	"strconv"

	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/services"
	"rewards-admin-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{Products: products}
}

func (h *ProductHandler) RegisterRoutes(admin, authed *gin.RouterGroup) {
	authed.GET("/products", h.List)
	admin.POST("/products", h.Register)
	admin.PUT("/products/:id", h.Edit)
	admin.DELETE("/products/:id", h.Delete)
}

func (h *ProductHandler) List(c *gin.Context) {
	filters := map[string]interface{}{}
	if v := c.Query("search"); v != "" {
		filters["search"] = v
	}
	products := h.Products.List(filters)
	if err := h.Products.Err(); err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": err, "data": products})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(products, "success"))
}

func (h *ProductHandler) Register(c *gin.Context) {
	points, _ := strconv.ParseFloat(c.PostForm("points"), 64)
	data := services.RegisterProductDTO{
		Name:          c.PostForm("name"),
		NameAr:        c.PostForm("nameAr"),
		Description:   c.PostForm("description"),
		DescriptionAr: c.PostForm("descriptionAr"),
		Points:        points,
	}

	image, err := formFilePart(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Products.Register(data, image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *ProductHandler) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	points, _ := strconv.ParseFloat(c.PostForm("points"), 64)
	data := services.RegisterProductDTO{
		Name:          c.PostForm("name"),
		NameAr:        c.PostForm("nameAr"),
		Description:   c.PostForm("description"),
		DescriptionAr: c.PostForm("descriptionAr"),
		Points:        points,
	}

	image, err := formFilePart(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Products.Edit(id, data, image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	result, err := h.Products.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

// formFilePart reads an optional multipart upload into a gateway attachment.
func formFilePart(c *gin.Context, field string) (*gateway.FilePart, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &gateway.FilePart{Field: field, FileName: file.Filename, Content: content}, nil
}
