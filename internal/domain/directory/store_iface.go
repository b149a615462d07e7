package directory

import "context"

type StoreAPI interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context, status string, limit, offset int) ([]Employee, error)
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	EmployeeEmailExists(ctx context.Context, email, excludeID string) (bool, error)
	UpdateEmployeeStatus(ctx context.Context, id, status string) error

	GetCustomer(ctx context.Context, id string) (Customer, error)
	ListCustomers(ctx context.Context, status string, limit, offset int) ([]Customer, error)
	CreateCustomer(ctx context.Context, customer Customer) error
	UpdateCustomer(ctx context.Context, customer Customer) error
	CustomerEmailExists(ctx context.Context, email, excludeID string) (bool, error)
	UpdateCustomerStatus(ctx context.Context, id, status string) error

	ListCategories(ctx context.Context, kind string) ([]Category, error)
	CreateCategory(ctx context.Context, category Category) error
}
