package model

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type ProductListResponse struct {
	Success  bool       `json:"success"`
	Products []*Product `json:"products"`
}

type RecommendedListResponse struct {
	Success  bool                 `json:"success"`
	Products []RecommendedProduct `json:"products"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product"`
}

type ImportResponse struct {
	Success  bool `json:"success"`
	Imported int  `json:"imported"`
	Skipped  int  `json:"skipped"`
}
