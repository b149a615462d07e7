package directory

import "time"

type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Designation string    `json:"designation"`
	Department  string    `json:"department"`
	PAN         string    `json:"panNumber"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type EmployeeInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Designation string `json:"designation" validate:"required,max=80"`
	Department  string `json:"department" validate:"max=80"`
	PAN         string `json:"panNumber" validate:"omitempty,pan"`
}

type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PaymentTerms *int      `json:"paymentTerms,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CustomerInput struct {
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	Address      string `json:"address" validate:"max=500"`
	PaymentTerms *int   `json:"paymentTerms" validate:"omitempty,gte=0,lte=365"`
}

type Category struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryInput struct {
	Kind string `json:"kind" validate:"required,oneof=designation department transaction"`
	Name string `json:"name" validate:"required,max=80"`
}
