package domain

const (
	RoleAdmin = "admin"
	RoleBuyer = "buyer"
)

type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PurchaseVolume string `json:"purchase_volume"`
	Role           string `json:"role"`
	IsActive       bool   `json:"is_active"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
