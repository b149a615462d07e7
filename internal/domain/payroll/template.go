package payroll

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

func (s *Service) GetTemplate(ctx context.Context, id string) (SalaryTemplate, error) {
	return s.store.GetTemplate(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, status string) ([]SalaryTemplate, error) {
	return s.store.ListTemplates(ctx, strings.ToLower(strings.TrimSpace(status)))
}

func (s *Service) CreateTemplate(ctx context.Context, input TemplateInput) (SalaryTemplate, error) {
	input, err := checkTemplate(input)
	if err != nil {
		return SalaryTemplate{}, err
	}
	template := SalaryTemplate{
		ID:              uuid.NewString(),
		Designation:     input.Designation,
		BasicSalary:     input.BasicSalary,
		RemainingLeaves: input.RemainingLeaves,
		Earnings:        input.Earnings,
		Deductions:      input.Deductions,
		Status:          TemplateActive,
	}
	if err := s.store.CreateTemplate(ctx, template); err != nil {
		return SalaryTemplate{}, err
	}
	return template, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, input TemplateInput) (SalaryTemplate, error) {
	input, err := checkTemplate(input)
	if err != nil {
		return SalaryTemplate{}, err
	}
	template, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return SalaryTemplate{}, err
	}
	template.Designation = input.Designation
	template.BasicSalary = input.BasicSalary
	template.RemainingLeaves = input.RemainingLeaves
	template.Earnings = input.Earnings
	template.Deductions = input.Deductions
	if err := s.store.UpdateTemplate(ctx, template); err != nil {
		return SalaryTemplate{}, err
	}
	return template, nil
}

func (s *Service) SetTemplateStatus(ctx context.Context, id, status string) (SalaryTemplate, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != TemplateActive && status != TemplateInactive {
		return SalaryTemplate{}, ErrInvalidTemplateStatus
	}
	template, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return SalaryTemplate{}, err
	}
	if template.Status == status {
		return template, nil
	}
	if err := s.store.UpdateTemplateStatus(ctx, id, status); err != nil {
		return SalaryTemplate{}, err
	}
	template.Status = status
	return template, nil
}

// ApplyTemplate creates a draft salary record for the employee and period
// from the template's salary structure.
func (s *Service) ApplyTemplate(ctx context.Context, templateID string, input ApplyTemplateInput) (SalaryRecord, error) {
	template, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return SalaryRecord{}, err
	}
	if template.Status != TemplateActive {
		return SalaryRecord{}, ErrTemplateInactive
	}
	remaining := template.RemainingLeaves
	if input.RemainingLeaves != nil {
		remaining = *input.RemainingLeaves
	}
	return s.CreateSalaryRecord(ctx, SalaryInput{
		EmployeeID:      input.EmployeeID,
		Month:           input.Month,
		Year:            input.Year,
		BasicSalary:     template.BasicSalary,
		RemainingLeaves: remaining,
		LeaveTaken:      input.LeaveTaken,
		Earnings:        append([]Line(nil), template.Earnings...),
		Deductions:      append([]Line(nil), template.Deductions...),
	})
}

func checkTemplate(input TemplateInput) (TemplateInput, error) {
	input.Designation = strings.TrimSpace(input.Designation)
	if input.Designation == "" {
		return input, ErrMissingDesignation
	}
	// A dry run with no leave taken validates salary and lines the same way
	// records are validated.
	comp, err := Compute(Inputs{
		BasicSalary:     input.BasicSalary,
		RemainingLeaves: input.RemainingLeaves,
		Earnings:        input.Earnings,
		Deductions:      input.Deductions,
	})
	if err != nil {
		return input, err
	}
	input.Earnings = comp.Earnings
	input.Deductions = comp.Deductions
	return input, nil
}
