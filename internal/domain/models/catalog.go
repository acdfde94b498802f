package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ref is a related record as the backend renders it in read payloads: either
// a numeric id or a display name, depending on the endpoint.
type Ref string

// UnmarshalJSON accepts strings, numbers and null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*r = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode ref: %w", err)
		}
		*r = Ref(s)
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decode ref: %w", err)
		}
		*r = Ref(n.String())
	}
	return nil
}

// Company is a company (empresa) that owns products.
type Company struct {
	ID        int64      `json:"id"`
	Name      string     `json:"nome"`
	CNPJ      string     `json:"cnpj"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"data_criacao,omitempty"`
}

// CompanyPayload is the writable shape of a company.
type CompanyPayload struct {
	Name     string `json:"nome"`
	CNPJ     string `json:"cnpj"`
	IsActive bool   `json:"is_active"`
}

// ProductType classifies products.
type ProductType struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// ProductTypePayload is the writable shape of a product type.
type ProductTypePayload struct {
	Name string `json:"nome"`
}

// Product statuses accepted by the backend.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is a catalog product as returned by list and detail endpoints.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"nome"`
	Code        string   `json:"codigo"`
	Perishable  bool     `json:"perecivel"`
	ExpiryDate  Date     `json:"data_validade"`
	Company     Ref      `json:"empresa"`
	ProductType Ref      `json:"product_type"`
	Status      string   `json:"status"`
	Images      []string `json:"imagens"`
}

// Label renders the product the way selectors show it: "name (code)".
func (p Product) Label() string {
	if strings.TrimSpace(p.Code) == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Code)
}

// ProductPayload is the writable shape of a product.
type ProductPayload struct {
	Name        string   `json:"nome"`
	Code        string   `json:"codigo"`
	Perishable  bool     `json:"perecivel"`
	ExpiryDate  Date     `json:"data_validade"`
	Company     int64    `json:"empresa"`
	ProductType int64    `json:"product_type"`
	Status      string   `json:"status"`
	Images      []string `json:"imagens"`
}

// LoginRequest is the credential body posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}
