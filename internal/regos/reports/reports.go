// Package reports wraps the REGOS gateway endpoints used for partner
// accounting reports. Each call goes through the rate-limited dispatcher and
// decodes the result payload into typed rows.
package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/regosbridge/regosbridge/internal/dates"
	"github.com/regosbridge/regosbridge/internal/regos"
)

// Dispatcher is the slice of the client the report service needs.
type Dispatcher interface {
	Do(ctx context.Context, req regos.Request) (*regos.Outcome, error)
}

// Service exposes the report endpoints for one configured gateway.
type Service struct {
	dispatcher Dispatcher
}

// NewService returns a report service backed by the given dispatcher.
func NewService(dispatcher Dispatcher) *Service {
	return &Service{dispatcher: dispatcher}
}

// Currency identifies a currency and its rate against the base currency.
type Currency struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	ExchangeRate float64 `json:"exchange_rate"`
}

// DocumentTypeRef is the numeric document type attached to an operation.
type DocumentTypeRef struct {
	ID int `json:"id"`
}

// Firm identifies the legal entity a document belongs to.
type Firm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// BalanceOperation is one row of the partner balance report.
type BalanceOperation struct {
	DocumentType DocumentTypeRef `json:"document_type"`
	DocumentCode string          `json:"document_code"`
	Currency     Currency        `json:"currency"`
	Firm         Firm            `json:"firm"`
	StartAmount  float64         `json:"start_amount"`
	Debit        float64         `json:"debit"`
	Credit       float64         `json:"credit"`
	Date         int64           `json:"date"`
}

// Remainder is the running balance after this operation.
func (op BalanceOperation) Remainder() float64 {
	return op.StartAmount + op.Debit - op.Credit
}

// BalanceParams selects the window and scope of a partner balance report.
type BalanceParams struct {
	PartnerID int
	FirmID    int
	Range     dates.Range
}

// PartnerBalance fetches the partner's balance movements for the window.
func (s *Service) PartnerBalance(ctx context.Context, credential string, params BalanceParams) ([]BalanceOperation, error) {
	start, end := params.Range.Unix()
	payload := map[string]any{
		"start_date": start,
		"end_date":   end,
		"partner_id": params.PartnerID,
		"firm_id":    params.FirmID,
	}

	var rows []BalanceOperation
	if err := s.call(ctx, credential, "PartnerBalance/Get", payload, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// StockItem is the catalog item referenced by a stock operation.
type StockItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Articul string `json:"articul"`
}

// StockOperation is one item movement inside a stock document.
type StockOperation struct {
	DocumentID int       `json:"document_id"`
	Item       StockItem `json:"item"`
	Quantity   float64   `json:"quantity"`
	Cost       float64   `json:"cost"`
	Price      float64   `json:"price"`
}

// Stock identifies a warehouse and its owning firm.
type Stock struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Firm Firm   `json:"firm"`
}

// StockDocument is the header of one stock movement document.
type StockDocument struct {
	ID       int      `json:"id"`
	Code     string   `json:"code"`
	Stock    Stock    `json:"stock"`
	Currency Currency `json:"currency"`
	Date     int64    `json:"date"`
}

// StockOperationsReport pairs document headers with their operations.
type StockOperationsReport struct {
	Documents  []StockDocument  `json:"documents"`
	Operations []StockOperation `json:"operations"`
}

// StockParams selects the window and movement type of a stock report.
type StockParams struct {
	PartnerID     int
	OperationType string
	Range         dates.Range
}

// PartnerStockOperations fetches item movements grouped under their
// documents for the window.
func (s *Service) PartnerStockOperations(ctx context.Context, credential string, params StockParams) (*StockOperationsReport, error) {
	start, end := params.Range.Unix()
	payload := map[string]any{
		"start_date":     start,
		"end_date":       end,
		"partner_id":     params.PartnerID,
		"operation_type": params.OperationType,
	}

	var report StockOperationsReport
	if err := s.call(ctx, credential, "PartnerStockOperations/Get", payload, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// DocumentType is one entry of the gateway's document type reference.
type DocumentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DocumentTypes fetches the document type reference list.
func (s *Service) DocumentTypes(ctx context.Context, credential string) ([]DocumentType, error) {
	var types []DocumentType
	if err := s.call(ctx, credential, "Reference/DocumentTypes", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// call dispatches one request and decodes a successful result into out.
// Non-success outcomes surface as their typed errors.
func (s *Service) call(ctx context.Context, credential, endpoint string, payload any, out any) error {
	outcome, err := s.dispatcher.Do(ctx, regos.Request{
		Endpoint:   endpoint,
		Payload:    payload,
		Credential: credential,
	})
	if err != nil {
		return err
	}
	if err := outcome.Err(); err != nil {
		return err
	}
	if len(outcome.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(outcome.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", endpoint, err)
	}
	return nil
}
