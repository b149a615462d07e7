package directory

import (
	"context"
	"strings"

	"backoffice/internal/platform/querier"
)

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, COALESCE(phone, ''), designation, COALESCE(department, ''),
           COALESCE(pan_number, ''), status, created_at, updated_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Designation, &e.Department, &e.PAN, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if querier.IsNoRows(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context, status string, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, email, COALESCE(phone, ''), designation, COALESCE(department, ''),
           COALESCE(pan_number, ''), status, created_at, updated_at
    FROM employees
    WHERE ($1 = '' OR status = $1)
    ORDER BY name
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Designation, &e.Department, &e.PAN, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, name, email, phone, designation, department, pan_number, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, e.ID, e.Name, e.Email, nullIfEmpty(e.Phone), e.Designation, nullIfEmpty(e.Department), nullIfEmpty(e.PAN), e.Status)
	if querier.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, email = $3, phone = $4, designation = $5, department = $6, pan_number = $7, updated_at = now()
    WHERE id = $1
  `, e.ID, e.Name, e.Email, nullIfEmpty(e.Phone), e.Designation, nullIfEmpty(e.Department), nullIfEmpty(e.PAN))
	if querier.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) EmployeeEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE lower(email) = lower($1) AND ($2 = '' OR id::text <> $2)
  `, email, excludeID).Scan(&count)
	return count > 0, err
}

func (s *Store) UpdateEmployeeStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET status = $2, updated_at = now() WHERE id = $1", id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var c Customer
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, COALESCE(phone, ''), COALESCE(address, ''), payment_terms, status, created_at, updated_at
    FROM customers
    WHERE id = $1
  `, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.PaymentTerms, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if querier.IsNoRows(err) {
		return Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (s *Store) ListCustomers(ctx context.Context, status string, limit, offset int) ([]Customer, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, email, COALESCE(phone, ''), COALESCE(address, ''), payment_terms, status, created_at, updated_at
    FROM customers
    WHERE ($1 = '' OR status = $1)
    ORDER BY name
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.PaymentTerms, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCustomer(ctx context.Context, c Customer) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO customers (id, name, email, phone, address, payment_terms, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, c.ID, c.Name, c.Email, nullIfEmpty(c.Phone), nullIfEmpty(c.Address), c.PaymentTerms, c.Status)
	if querier.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) UpdateCustomer(ctx context.Context, c Customer) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE customers
    SET name = $2, email = $3, phone = $4, address = $5, payment_terms = $6, updated_at = now()
    WHERE id = $1
  `, c.ID, c.Name, c.Email, nullIfEmpty(c.Phone), nullIfEmpty(c.Address), c.PaymentTerms)
	if querier.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *Store) CustomerEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM customers WHERE lower(email) = lower($1) AND ($2 = '' OR id::text <> $2)
  `, email, excludeID).Scan(&count)
	return count > 0, err
}

func (s *Store) UpdateCustomerStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE customers SET status = $2, updated_at = now() WHERE id = $1", id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, kind string) ([]Category, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, kind, name, created_at
    FROM categories
    WHERE ($1 = '' OR kind = $1)
    ORDER BY kind, name
  `, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Kind, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, c Category) error {
	_, err := s.DB.Exec(ctx, "INSERT INTO categories (id, kind, name) VALUES ($1,$2,$3)", c.ID, c.Kind, c.Name)
	if querier.IsUniqueViolation(err) {
		return ErrCategoryExists
	}
	return err
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
