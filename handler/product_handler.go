package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Lawrence9908/ecommerce-backend-api/common"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/service"

	"github.com/sirupsen/logrus"
)

// maxImportSize caps the multipart body of a spreadsheet import.
const maxImportSize = 10 << 20

type ProductHandler struct {
	service *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{service: productService}
}

// ListProducts godoc
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {object}  model.ProductListResponse
// @Router       /api/product [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) *common.AppError {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		return common.NewInternalError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.ProductListResponse{Success: true, Products: products})
	return nil
}

// ListByCategory godoc
// @Summary      List products of a category
// @Tags         products
// @Produce      json
// @Param        category  path      string  true  "Category"
// @Success      200       {object}  model.ProductListResponse
// @Router       /api/product/category/{category} [get]
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) *common.AppError {
	products, err := h.service.ListProductsByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		return common.NewInternalError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.ProductListResponse{Success: true, Products: products})
	return nil
}

// Featured godoc
// @Summary      Featured products
// @Description  Served from the cache when present.
// @Tags         products
// @Produce      json
// @Success      200  {object}  model.ProductListResponse
// @Failure      404  {object}  common.AppError
// @Router       /api/product/featured [get]
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) *common.AppError {
	products, err := h.service.GetFeaturedProducts(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoFeaturedProducts) {
			return common.NewAppError(http.StatusNotFound, "No featured products found", nil)
		}
		return common.NewInternalError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.ProductListResponse{Success: true, Products: products})
	return nil
}

// Recommended godoc
// @Summary      Random product sample
// @Tags         products
// @Produce      json
// @Success      200  {object}  model.RecommendedListResponse
// @Router       /api/product/recommended [get]
func (h *ProductHandler) Recommended(w http.ResponseWriter, r *http.Request) *common.AppError {
	products, err := h.service.GetRecommendedProducts(r.Context())
	if err != nil {
		return common.NewInternalError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.RecommendedListResponse{Success: true, Products: products})
	return nil
}

// CreateProduct godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        request  body      model.CreateProductRequest  true  "Product"
// @Success      201      {object}  model.ProductResponse
// @Failure      400      {object}  common.AppError
// @Failure      401      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Router       /api/product [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateProductRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			return common.NewAppError(http.StatusBadRequest, "Invalid value for: image", err)
		}
		return common.NewInternalError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"category":   product.Category,
	}).Info("Product created")

	common.WriteJSON(w, http.StatusCreated, model.ProductResponse{Success: true, Product: product})
	return nil
}

// ImportProducts godoc
// @Summary      Bulk import products from a spreadsheet
// @Description  First sheet of an .xlsx file, header row then name, description, price, category, image, featured.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     CookieAuth
// @Param        file  formData  file  true  "Workbook (.xlsx)"
// @Success      200   {object}  model.ImportResponse
// @Failure      400   {object}  common.AppError
// @Router       /api/product/import [post]
func (h *ProductHandler) ImportProducts(w http.ResponseWriter, r *http.Request) *common.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid multipart form", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "A file field is required", err)
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		return common.NewAppError(http.StatusBadRequest, "Only .xlsx files are supported", nil)
	}

	result, err := h.service.ImportProducts(r.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImport) {
			return common.NewAppError(http.StatusBadRequest, "Could not read the workbook", err)
		}
		return common.NewInternalError(err)
	}

	common.WriteJSON(w, http.StatusOK, model.ImportResponse{Success: true, Imported: result.Imported, Skipped: result.Skipped})
	return nil
}

// ToggleFeatured godoc
// @Summary      Flip the featured flag
// @Tags         products
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  model.ProductResponse
// @Failure      404  {object}  common.AppError
// @Router       /api/product/{id}/toggle-featured [patch]
func (h *ProductHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) *common.AppError {
	product, err := h.service.ToggleFeatured(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return common.NewAppError(http.StatusNotFound, "Product not found", nil)
		}
		return common.NewInternalError(err)
	}
	common.WriteJSON(w, http.StatusOK, model.ProductResponse{Success: true, Product: product})
	return nil
}

// DeleteProduct godoc
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  model.MessageResponse
// @Failure      404  {object}  common.AppError
// @Router       /api/product/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return common.NewAppError(http.StatusNotFound, "Product not found", nil)
		}
		return common.NewInternalError(err)
	}

	logger.Log.WithField("product_id", id).Info("Product deleted")
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Product deleted successfully"})
	return nil
}
