package services

import (
	"context"
	"strings"

	"nxq-backend/internal/events"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
)

type CustomerService struct {
	Repo     *repositories.CustomerRepository
	Schemes  *repositories.SchemeRepository
	Payments *repositories.PaymentRepository
	Rules    *Rules
	Events   events.Publisher
}

func NewCustomerService(repo *repositories.CustomerRepository, schemes *repositories.SchemeRepository,
	payments *repositories.PaymentRepository, rules *Rules, pub events.Publisher) *CustomerService {
	return &CustomerService{Repo: repo, Schemes: schemes, Payments: payments, Rules: rules, Events: pub}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	name, err := required("name", req.Name)
	if err != nil {
		return nil, err
	}
	phone, err := validPhone(req.Phone)
	if err != nil {
		return nil, err
	}
	address, err := required("address", req.Address)
	if err != nil {
		return nil, err
	}
	startDate, err := s.Rules.pastOrToday("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	if err := money("monthly_amount", req.MonthlyAmount); err != nil {
		return nil, err
	}

	var code string
	if strings.TrimSpace(req.CustomerCode) != "" {
		if code, err = s.Rules.customerCode(req.CustomerCode); err != nil {
			return nil, err
		}
	}

	schemeID := schemeRef(req.SchemeID)
	if schemeID != nil {
		if _, err := s.Schemes.Get(ctx, *schemeID); err != nil {
			return nil, err
		}
	}

	customer := &models.Customer{
		SchemeID:      schemeID,
		CustomerCode:  code,
		Name:          name,
		Phone:         phone,
		Address:       address,
		StartDate:     startDate,
		MonthlyAmount: req.MonthlyAmount,
	}
	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.Events.Publish(events.Event{Type: events.CustomerAdded, SchemeID: customer.SchemeID, EntityID: customer.ID})
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) GetByCode(ctx context.Context, code string) (*models.Customer, error) {
	code, err := required("code", code)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByCode(ctx, code)
}

func (s *CustomerService) SearchByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	phone, err := required("phone", phone)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByPhone(ctx, phone)
}

func (s *CustomerService) ListCustomers(ctx context.Context, schemeID *int) ([]*models.Customer, error) {
	return s.Repo.List(ctx, schemeRef(schemeID))
}

// ListPayments returns a customer's payment history, newest first.
func (s *CustomerService) ListPayments(ctx context.Context, customerID int) ([]*models.Payment, error) {
	if _, err := s.Repo.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.Payments.ListByCustomer(ctx, customerID)
}

// NextCode previews the code the next insert would receive. It does not
// reserve it.
func (s *CustomerService) NextCode(ctx context.Context, schemeID *int) (string, error) {
	return s.Repo.NextCode(ctx, schemeRef(schemeID))
}

func (s *CustomerService) CodeExists(ctx context.Context, code string) (bool, error) {
	code, err := required("code", code)
	if err != nil {
		return false, err
	}
	return s.Repo.CodeExists(ctx, code)
}

// ValidateCode reports whether code is free and well formed. Existing codes
// are compared the same way the insert path does.
func (s *CustomerService) ValidateCode(ctx context.Context, code string) (*models.CodeValidation, error) {
	code, err := required("code", code)
	if err != nil {
		return nil, err
	}

	exists, err := s.Repo.CodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	result := &models.CodeValidation{Exists: exists}
	_, formatErr := s.Rules.customerCode(code)
	result.Valid = !result.Exists && formatErr == nil
	return result, nil
}
