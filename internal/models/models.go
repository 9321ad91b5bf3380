package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	OrderPending = "pending"
	OrderPaid    = "paid"
)

// Categories is the fixed set a product may belong to.
var Categories = []string{
	"Dark Chocolate",
	"Milk Chocolate",
	"White Chocolate",
	"Gift Boxes",
	"Truffles",
	"Bars",
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string `gorm:"not null"                  json:"name"`
	Email        string `gorm:"unique;not null"           json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:customer" json:"role"`
}

type Product struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string   `gorm:"not null"                 json:"name"`
	Description string   `gorm:"not null"                 json:"description"`
	Price       float64  `gorm:"not null;check:price>=0"  json:"price"`
	Category    string   `gorm:"not null"                 json:"category"`
	Image       string   `gorm:"not null"                 json:"image"`
	Stock       uint     `gorm:"not null;default:0"       json:"stock"`
	Ingredients []string `gorm:"serializer:json"          json:"ingredients"`
	Weight      float64  `json:"weight"`
	Rating      float64  `gorm:"default:0"                json:"rating"`
	ReviewCount uint     `gorm:"default:0"                json:"reviewCount"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Order struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint    `gorm:"index;not null"           json:"user_id"`
	TotalAmount float64 `gorm:"not null"                 json:"total_amount"`
	PaymentID   string  `json:"payment_id"`
	Status      string  `gorm:"not null;default:pending" json:"status"`
	CreatedAt   int64   `json:"created_at"`
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey"       json:"id"`
	OrderID   uint `gorm:"index;not null"   json:"order_id"`
	ProductID uint `gorm:"not null"         json:"product_id"`
	Quantity  uint `gorm:"check:quantity>0" json:"quantity"`
}
