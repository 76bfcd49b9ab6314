package service

import "storefront/pkg/store"

// Response shapes returned to the HTTP layer. These are also the cached
// values: what goes into the cache store is exactly what a caller would
// receive, so a hit needs no further mapping.

// CustomerDTO is a customer with summaries of its orders.
type CustomerDTO struct {
	ID     int64              `json:"id" msgpack:"id"`
	Name   string             `json:"name" msgpack:"name"`
	Orders []CustomerOrderDTO `json:"orders" msgpack:"orders"`
}

// CustomerOrderDTO is an order summary embedded in a customer response.
type CustomerOrderDTO struct {
	ID          int64  `json:"id" msgpack:"id"`
	Description string `json:"description" msgpack:"description"`
}

// OrderDTO is an order with its owning customer and product snapshots.
type OrderDTO struct {
	ID          int64            `json:"id" msgpack:"id"`
	Description string           `json:"description" msgpack:"description"`
	Customer    OrderCustomerDTO `json:"customer" msgpack:"customer"`
	Products    []ProductDTO     `json:"products" msgpack:"products"`
}

// OrderCustomerDTO is the customer summary embedded in an order response.
type OrderCustomerDTO struct {
	ID   int64  `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

// ProductDTO is a product response.
type ProductDTO struct {
	ID          int64  `json:"id" msgpack:"id"`
	Description string `json:"description" msgpack:"description"`
}

func customerToDTO(customer *store.Customer) *CustomerDTO {
	if customer == nil {
		return nil
	}
	orders := make([]CustomerOrderDTO, 0, len(customer.Orders))
	for _, order := range customer.Orders {
		orders = append(orders, CustomerOrderDTO{ID: order.ID, Description: order.Description})
	}
	return &CustomerDTO{ID: customer.ID, Name: customer.Name, Orders: orders}
}

func customersToDTOs(customers []store.Customer) []CustomerDTO {
	dtos := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, *customerToDTO(&customers[i]))
	}
	return dtos
}

func orderToDTO(order *store.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:          order.ID,
		Description: order.Description,
		Customer:    OrderCustomerDTO{ID: order.CustomerID},
		Products:    make([]ProductDTO, 0, len(order.Products)),
	}
	if order.Customer != nil {
		dto.Customer.Name = order.Customer.Name
	}
	for _, product := range order.Products {
		dto.Products = append(dto.Products, ProductDTO{ID: product.ID, Description: product.Description})
	}
	return dto
}

func ordersToDTOs(orders []store.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *orderToDTO(&orders[i]))
	}
	return dtos
}

func productToDTO(product *store.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{ID: product.ID, Description: product.Description}
}

func productsToDTOs(products []store.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *productToDTO(&products[i]))
	}
	return dtos
}
