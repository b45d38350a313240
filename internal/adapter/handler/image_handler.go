package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/property-listings-backend/internal/domain"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/property-listings-backend/internal/usecase/upload"
)

// multipartOverhead leaves room for boundaries and the text fields on top of
// the file itself.
const multipartOverhead = 1 << 20

type ImageHandler struct {
	imageSvc      ImageService
	maxUploadSize int64
}

func NewImageHandler(imageSvc ImageService, maxFileSize int64) *ImageHandler {
	if maxFileSize <= 0 {
		maxFileSize = upload.DefaultMaxFileSize
	}
	return &ImageHandler{imageSvc: imageSvc, maxUploadSize: maxFileSize + multipartOverhead}
}

func (h *ImageHandler) Upload(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.HandleError(c, apperror.Pipeline(apperror.CodeFileTooLarge, "request body too large", err))
			return
		}
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_FILE", "file is required")
		return
	}
	defer file.Close()

	var form request.UploadImageForm
	if err := c.ShouldBind(&form); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	asset, err := h.imageSvc.Upload(c.Request.Context(), upload.UploadInput{
		UserID:      httputil.GetUserID(c),
		ListingID:   listingID,
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		AltText:     form.AltText,
		Order:       form.Order,
	})
	if err != nil {
		handleImageError(c, err)
		return
	}

	httputil.Created(c, response.ImageFromEntity(asset))
}

func (h *ImageHandler) List(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	assets, err := h.imageSvc.List(c.Request.Context(), listingID)
	if err != nil {
		handleImageError(c, err)
		return
	}

	httputil.OK(c, response.ImagesFromEntities(assets))
}

func (h *ImageHandler) Update(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid image id")
		return
	}

	var req request.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	asset, err := h.imageSvc.Update(c.Request.Context(), upload.UpdateInput{
		UserID:  httputil.GetUserID(c),
		ImageID: imageID,
		AltText: req.AltText,
		Order:   req.Order,
	})
	if err != nil {
		handleImageError(c, err)
		return
	}

	httputil.OK(c, response.ImageFromEntity(asset))
}

func (h *ImageHandler) Delete(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid image id")
		return
	}

	if err := h.imageSvc.Delete(c.Request.Context(), httputil.GetUserID(c), imageID); err != nil {
		handleImageError(c, err)
		return
	}

	httputil.NoContent(c)
}

func handleImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		err = apperror.NotFound("listing", err)
	case errors.Is(err, domain.ErrImageNotFound):
		err = apperror.NotFound("image", err)
	case errors.Is(err, domain.ErrForbidden):
		err = apperror.Forbidden("only the listing agent can manage its images", err)
	case errors.Is(err, domain.ErrInvalidOrder):
		err = apperror.Validation(domain.ErrInvalidOrder.Error(), err)
	}
	httputil.HandleError(c, err)
}
