package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"weddingplanner/internal/dto"
	"weddingplanner/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type AccountHandler struct {
	Service  *service.AccountService
	Validate *validator.Validate
}

func NewAccountHandler(svc *service.AccountService, validate *validator.Validate) *AccountHandler {
	return &AccountHandler{Service: svc, Validate: validate}
}

func (h *AccountHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	multipartForm := strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
	if multipartForm {
		if err := c.Bind(&req); err != nil {
			return writeError(c, http.StatusBadRequest, errors.New("invalid form"))
		}
	} else if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeValidationError(c, err)
	}

	input := service.RegisterInput{
		Email:       req.Email,
		Name:        req.Name,
		PartnerName: req.PartnerName,
		Phone:       req.Phone,
		Password:    req.Password,
	}
	if req.WeddingDate != "" {
		weddingDate, err := time.Parse(time.DateOnly, req.WeddingDate)
		if err != nil {
			return writeError(c, http.StatusBadRequest, errors.New("wedding_date must be YYYY-MM-DD"))
		}
		input.WeddingDate = &weddingDate
	}

	if multipartForm {
		file, err := c.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return writeError(c, http.StatusBadRequest, errors.New("invalid image"))
		default:
			upload, closer, err := openImage(file)
			if err != nil {
				return writeError(c, http.StatusBadRequest, err)
			}
			defer closer.Close()
			input.Image = upload
		}
	}

	if err := h.Service.RegisterAccount(c.Request().Context(), input); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]bool{"ok": true})
}

func (h *AccountHandler) Verify(c echo.Context) error {
	var req dto.RedeemVerificationRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeValidationError(c, err)
	}
	result, err := h.Service.RedeemVerification(c.Request().Context(), service.RedeemInput{
		Code:  req.Code,
		Token: req.Token,
		Email: req.Email,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RedeemVerificationResponse{Activated: result.Activated, Email: result.Email})
}

func openImage(file *multipart.FileHeader) (*service.ImageUpload, io.Closer, error) {
	if file.Size > maxImageBytes {
		return nil, nil, errors.New("image too large")
	}
	contentType := file.Header.Get(echo.HeaderContentType)
	if !allowedImageTypes[contentType] {
		return nil, nil, errors.New("unsupported image type")
	}
	src, err := file.Open()
	if err != nil {
		return nil, nil, errors.New("invalid image")
	}
	return &service.ImageUpload{
		Filename:    file.Filename,
		ContentType: contentType,
		Body:        io.LimitReader(src, maxImageBytes),
	}, src, nil
}
