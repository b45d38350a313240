package request

type UploadImageForm struct {
	AltText string `form:"alt_text" binding:"omitempty,max=500"`
	Order   *int   `form:"order" binding:"omitempty,min=0"`
}

type UpdateImageRequest struct {
	AltText *string `json:"alt_text" binding:"omitempty,max=500"`
	Order   *int    `json:"order" binding:"omitempty,min=0"`
}
