package models

type FavoriteOp string

const (
	FavoriteAdd    FavoriteOp = "add"
	FavoriteRemove FavoriteOp = "remove"
)

// FavoriteChange is a local toggle not yet applied to the user's stored favorites.
type FavoriteChange struct {
	ProductID string     `json:"product_id"`
	Op        FavoriteOp `json:"op"`
}
