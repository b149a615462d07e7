package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"backoffice/internal/platform/validation"
)

type Service struct {
	store    StoreAPI
	validate *validation.Validator
}

func NewService(store StoreAPI, validate *validation.Validator) *Service {
	if validate == nil {
		validate = validation.New("")
	}
	return &Service{store: store, validate: validate}
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, status string, limit, offset int) ([]Employee, error) {
	return s.store.ListEmployees(ctx, status, limit, offset)
}

func (s *Service) CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	input = normalizeEmployee(input)
	if err := s.validate.Struct(input); err != nil {
		return Employee{}, err
	}
	taken, err := s.store.EmployeeEmailExists(ctx, input.Email, "")
	if err != nil {
		return Employee{}, err
	}
	if taken {
		return Employee{}, ErrEmailTaken
	}
	employee := Employee{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Designation: input.Designation,
		Department:  input.Department,
		PAN:         input.PAN,
		Status:      StatusActive,
	}
	if err := s.store.CreateEmployee(ctx, employee); err != nil {
		return Employee{}, err
	}
	return employee, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (Employee, error) {
	input = normalizeEmployee(input)
	if err := s.validate.Struct(input); err != nil {
		return Employee{}, err
	}
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	taken, err := s.store.EmployeeEmailExists(ctx, input.Email, id)
	if err != nil {
		return Employee{}, err
	}
	if taken {
		return Employee{}, ErrEmailTaken
	}
	employee.Name = input.Name
	employee.Email = input.Email
	employee.Phone = input.Phone
	employee.Designation = input.Designation
	employee.Department = input.Department
	employee.PAN = input.PAN
	if err := s.store.UpdateEmployee(ctx, employee); err != nil {
		return Employee{}, err
	}
	return employee, nil
}

// SetEmployeeStatus toggles Active/Inactive. Setting the current status again
// is a no-op.
func (s *Service) SetEmployeeStatus(ctx context.Context, id, status string) (Employee, error) {
	status, err := normalizeStatus(status)
	if err != nil {
		return Employee{}, err
	}
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if employee.Status == status {
		return employee, nil
	}
	if err := s.store.UpdateEmployeeStatus(ctx, id, status); err != nil {
		return Employee{}, err
	}
	employee.Status = status
	return employee, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, status string, limit, offset int) ([]Customer, error) {
	return s.store.ListCustomers(ctx, status, limit, offset)
}

func (s *Service) CreateCustomer(ctx context.Context, input CustomerInput) (Customer, error) {
	input = normalizeCustomer(input)
	if err := s.validate.Struct(input); err != nil {
		return Customer{}, err
	}
	taken, err := s.store.CustomerEmailExists(ctx, input.Email, "")
	if err != nil {
		return Customer{}, err
	}
	if taken {
		return Customer{}, ErrEmailTaken
	}
	customer := Customer{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		PaymentTerms: input.PaymentTerms,
		Status:       StatusActive,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (Customer, error) {
	input = normalizeCustomer(input)
	if err := s.validate.Struct(input); err != nil {
		return Customer{}, err
	}
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	taken, err := s.store.CustomerEmailExists(ctx, input.Email, id)
	if err != nil {
		return Customer{}, err
	}
	if taken {
		return Customer{}, ErrEmailTaken
	}
	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.PaymentTerms = input.PaymentTerms
	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

func (s *Service) SetCustomerStatus(ctx context.Context, id, status string) (Customer, error) {
	status, err := normalizeStatus(status)
	if err != nil {
		return Customer{}, err
	}
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if customer.Status == status {
		return customer, nil
	}
	if err := s.store.UpdateCustomerStatus(ctx, id, status); err != nil {
		return Customer{}, err
	}
	customer.Status = status
	return customer, nil
}

func (s *Service) ListCategories(ctx context.Context, kind string) ([]Category, error) {
	return s.store.ListCategories(ctx, strings.ToLower(strings.TrimSpace(kind)))
}

func (s *Service) CreateCategory(ctx context.Context, input CategoryInput) (Category, error) {
	input.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return Category{}, err
	}
	category := Category{ID: uuid.NewString(), Kind: input.Kind, Name: input.Name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return Category{}, err
	}
	return category, nil
}

func normalizeEmployee(input EmployeeInput) EmployeeInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Designation = strings.TrimSpace(input.Designation)
	input.Department = strings.TrimSpace(input.Department)
	input.PAN = strings.ToUpper(strings.TrimSpace(input.PAN))
	return input
}

func normalizeCustomer(input CustomerInput) CustomerInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)
	return input
}

func normalizeStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	default:
		return "", ErrInvalidStatus
	}
}
