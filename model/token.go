// file: model/token.go

package model

// TokenPair is issued on signup and login. The refresh token is also kept
// server-side, one per user.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
