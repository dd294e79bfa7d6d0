package handler

import (
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/media"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ImageHandler struct {
	uc     *usecase.ImageUsecase
	signer *media.Signer
}

// DI
func NewImageHandler(uc *usecase.ImageUsecase, signer *media.Signer) *ImageHandler {
	return &ImageHandler{uc: uc, signer: signer}
}

func (h *ImageHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/images/signature", h.signature)
	g.POST("/images", h.save)
	g.DELETE("/images/:id", h.delete)
}

type signatureRequest struct {
	FileName string `json:"fileName" validate:"required"`
	Type     string `json:"type" validate:"required"`
}

// アップロード用の署名を返す。ファイル本体はクライアントが直接メディアホストへ送る
func (h *ImageHandler) signature(c echo.Context) error {
	var req signatureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	t := model.EntityType(req.Type)
	if !t.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entity type"})
	}

	sig, err := h.signer.SignUpload(req.FileName, t, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, sig)
}

type saveImageRequest struct {
	PublicID     string `json:"publicId" validate:"required"`
	URLOriginal  string `json:"urlOriginal" validate:"required,url"`
	URLOptimized string `json:"urlOptimized" validate:"required,url"`
	URLMedium    string `json:"urlMedium" validate:"required,url"`
}

type saveImagesRequest struct {
	Type   string             `json:"type" validate:"required"`
	Images []saveImageRequest `json:"images" validate:"required,min=1,dive"`
}

// アップロード済み画像のメタデータをTEMPORARYで登録する
func (h *ImageHandler) save(c echo.Context) error {
	var req saveImagesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inputs := make([]usecase.SaveImageInput, 0, len(req.Images))
	for _, img := range req.Images {
		inputs = append(inputs, usecase.SaveImageInput{
			PublicID:     img.PublicID,
			URLOriginal:  img.URLOriginal,
			URLOptimized: img.URLOptimized,
			URLMedium:    img.URLMedium,
		})
	}

	ids, err := h.uc.SaveImages(c.Request().Context(), inputs, model.EntityType(req.Type))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"imageIds": ids})
}

func (h *ImageHandler) delete(c echo.Context) error {
	if err := h.uc.DeleteImage(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "image deleted"})
}
