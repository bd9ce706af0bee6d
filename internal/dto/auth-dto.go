package dto

type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type OperatorDTO struct {
	ID        uint64 `json:"id"`
	Fio       string `json:"fio"`
	Login     string `json:"login"`
	CreatedAt string `json:"created_at"`
}
