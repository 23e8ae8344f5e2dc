package dto

type RegisterDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=20"`
	FullName string `json:"fullName" validate:"max=100"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileDTO struct {
	FullName  string `json:"fullName"  validate:"max=100"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

type PublishVideoDTO struct {
	Title           string  `json:"title"           validate:"required,min=1,max=200"`
	Description     string  `json:"description"     validate:"max=5000"`
	VideoURL        string  `json:"videoUrl"        validate:"required,url"`
	ThumbnailURL    string  `json:"thumbnailUrl"    validate:"omitempty,url"`
	DurationSeconds float64 `json:"durationSeconds" validate:"gte=0"`
}

type UpdateVideoDTO struct {
	Title        string `json:"title"        validate:"required,min=1,max=200"`
	Description  string `json:"description"  validate:"max=5000"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
}

type CreateTweetDTO struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}

type UpdateTweetDTO struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}

type AddCommentDTO struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type UpdateCommentDTO struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
