package store

// Customer owns zero or more Orders. Deleting a customer cascades deletion
// of its orders (and their join rows) at the persistence layer.
type Customer struct {
	ID     int64   `gorm:"primaryKey;autoIncrement"`
	Name   string  `gorm:"size:255;not null;index:idx_customer_name"`
	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for customers
func (Customer) TableName() string {
	return "customer"
}

// Order belongs to exactly one Customer and references zero or more
// Products through the order_product join table. The customer reference
// may be reassigned on update.
type Order struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"size:255;not null;index:idx_order_description"`
	CustomerID  int64     `gorm:"not null;index:idx_order_customer_id"`
	Customer    *Customer `gorm:"foreignKey:CustomerID"`
	Products    []Product `gorm:"many2many:order_product"`
}

// TableName returns the database table name for orders.
// "order" is a reserved word in SQL, hence the plural.
func (Order) TableName() string {
	return "orders"
}

// Product is the inverse side of the Order<->Product many-to-many.
type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Description string  `gorm:"size:255;not null;index:idx_product_description"`
	Orders      []Order `gorm:"many2many:order_product"`
}

// TableName returns the database table name for products
func (Product) TableName() string {
	return "product"
}

// Models returns every model for schema auto-migration.
func Models() []interface{} {
	return []interface{}{&Customer{}, &Order{}, &Product{}}
}
