package cache

import "fmt"

// FeaturedProductsKey holds the JSON snapshot of every featured product.
const FeaturedProductsKey = "featured_products"

// RefreshTokenKey is where the single live refresh token of a user is stored.
func RefreshTokenKey(userID string) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}
