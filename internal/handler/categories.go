package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	"fintrack/internal/middleware"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Type: string(c.Type)}
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cat, err := h.finance.CreateCategory(c.Request.Context(), core.Category{
		UserID: middleware.UserID(c),
		Name:   req.Name,
		Type:   core.CategoryType(req.Type),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

func (h *Handler) ListCategories(c *gin.Context) {
	var typeFilter *core.CategoryType
	if raw := c.Query("type"); raw != "" {
		t := core.CategoryType(raw)
		if !t.Valid() {
			writeError(c, core.ErrInvalidType)
			return
		}
		typeFilter = &t
	}

	cats, err := h.finance.ListCategories(c.Request.Context(), middleware.UserID(c), typeFilter)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.finance.GetCategory(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cat, err := h.finance.RenameCategory(c.Request.Context(), middleware.UserID(c), id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.finance.DeleteCategory(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subcategories

type subcategoryRequest struct {
	CategoryID int64  `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

type subcategoryResponse struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

func toSubcategoryResponse(s core.Subcategory) subcategoryResponse {
	return subcategoryResponse{ID: s.ID, CategoryID: s.CategoryID, Name: s.Name}
}

func (h *Handler) CreateSubcategory(c *gin.Context) {
	var req subcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sub, err := h.finance.CreateSubcategory(c.Request.Context(), core.Subcategory{
		UserID:     middleware.UserID(c),
		CategoryID: req.CategoryID,
		Name:       req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubcategoryResponse(sub))
}

func (h *Handler) ListSubcategories(c *gin.Context) {
	categoryID, err := queryInt64(c, "category_id")
	if err != nil {
		badRequest(c, err)
		return
	}

	subs, err := h.finance.ListSubcategories(c.Request.Context(), middleware.UserID(c), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]subcategoryResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubcategoryResponse(sub))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sub, err := h.finance.GetSubcategory(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubcategoryResponse(sub))
}

func (h *Handler) UpdateSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sub, err := h.finance.RenameSubcategory(c.Request.Context(), middleware.UserID(c), id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubcategoryResponse(sub))
}

func (h *Handler) DeleteSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.finance.DeleteSubcategory(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
