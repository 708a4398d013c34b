package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/etnz/satstack"
	"github.com/go-playground/validator/v10"
)

// TransactionRequest is the body of transaction creation and update.
type TransactionRequest struct {
	ID           string      `json:"id,omitempty" validate:"max=64"`
	Type         string      `json:"type" validate:"required,tx_type"`
	Date         string      `json:"date" validate:"required,ledger_date"`
	AssetAmount  json.Number `json:"assetAmount" validate:"required,positive_decimal"`
	PricePerUnit json.Number `json:"pricePerUnit,omitempty" validate:"omitempty,nonnegative_decimal"`
	FiatAmount   json.Number `json:"fiatAmount" validate:"required,nonnegative_decimal"`
	Fees         json.Number `json:"fees,omitempty" validate:"omitempty,nonnegative_decimal"`
	Description  string      `json:"description,omitempty" validate:"max=500"`
}

// SettingsRequest is the body of the tax settings update.
type SettingsRequest struct {
	CostBasisMethod string      `json:"costBasisMethod" validate:"required,cost_basis_method"`
	IncludeFees     *bool       `json:"includeFees" validate:"required"`
	ShortTermRate   json.Number `json:"shortTermRate" validate:"required,rate"`
	LongTermRate    json.Number `json:"longTermRate" validate:"required,rate"`
}

var validate = newValidator()

// newValidator registers the custom validations for the ledger fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("tx_type", validateTxType)
	_ = v.RegisterValidation("ledger_date", validateLedgerDate)
	_ = v.RegisterValidation("positive_decimal", validatePositiveDecimal)
	_ = v.RegisterValidation("nonnegative_decimal", validateNonNegativeDecimal)
	_ = v.RegisterValidation("cost_basis_method", validateCostBasisMethod)
	_ = v.RegisterValidation("rate", validateRate)
	return v
}

func validateTxType(fl validator.FieldLevel) bool {
	_, err := satstack.ParseTxType(fl.Field().String())
	return err == nil
}

func validateLedgerDate(fl validator.FieldLevel) bool {
	_, err := satstack.ParseDate(fl.Field().String())
	return err == nil
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	q, err := satstack.ParseQuantity(fl.Field().String())
	return err == nil && q.IsPositive()
}

func validateNonNegativeDecimal(fl validator.FieldLevel) bool {
	m, err := satstack.ParseMoney(fl.Field().String())
	return err == nil && !m.IsNegative()
}

func validateCostBasisMethod(fl validator.FieldLevel) bool {
	_, err := satstack.ParseCostBasisMethod(fl.Field().String())
	return err == nil
}

func validateRate(fl validator.FieldLevel) bool {
	p, err := satstack.ParsePercent(fl.Field().String())
	return err == nil && !p.IsNegative() && !p.GreaterThan(satstack.Pct(100))
}

// fieldErrors describes the failed validations by JSON field name.
func fieldErrors(err error) map[string]string {
	res := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res["body"] = err.Error()
		return res
	}
	for _, fe := range verrs {
		res[fe.Field()] = fmt.Sprintf("failed on %q", fe.Tag())
	}
	return res
}

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Transaction converts a validated request into a transaction.
func (req TransactionRequest) Transaction() (satstack.Transaction, error) {
	typ, err := satstack.ParseTxType(req.Type)
	if err != nil {
		return satstack.Transaction{}, err
	}
	on, err := satstack.ParseDate(req.Date)
	if err != nil {
		return satstack.Transaction{}, err
	}
	amount, err := satstack.ParseQuantity(req.AssetAmount.String())
	if err != nil {
		return satstack.Transaction{}, err
	}
	fiat, err := satstack.ParseMoney(req.FiatAmount.String())
	if err != nil {
		return satstack.Transaction{}, err
	}
	tx := satstack.NewTransaction(req.ID, typ, on, amount, fiat).WithDescription(req.Description)
	if req.PricePerUnit != "" {
		if tx.PricePerUnit, err = satstack.ParseMoney(req.PricePerUnit.String()); err != nil {
			return satstack.Transaction{}, err
		}
	}
	if req.Fees != "" {
		fees, err := satstack.ParseMoney(req.Fees.String())
		if err != nil {
			return satstack.Transaction{}, err
		}
		tx = tx.WithFees(fees)
	}
	return tx, nil
}

// TaxConfiguration converts a validated request into settings.
func (req SettingsRequest) TaxConfiguration() (satstack.TaxConfiguration, error) {
	method, err := satstack.ParseCostBasisMethod(req.CostBasisMethod)
	if err != nil {
		return satstack.TaxConfiguration{}, err
	}
	short, err := satstack.ParsePercent(req.ShortTermRate.String())
	if err != nil {
		return satstack.TaxConfiguration{}, err
	}
	long, err := satstack.ParsePercent(req.LongTermRate.String())
	if err != nil {
		return satstack.TaxConfiguration{}, err
	}
	return satstack.TaxConfiguration{
		CostBasisMethod: method,
		IncludeFees:     *req.IncludeFees,
		ShortTermRate:   short,
		LongTermRate:    long,
	}, nil
}
