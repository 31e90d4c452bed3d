package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/convertfy/backoffice/internal/asaas"
	"github.com/convertfy/backoffice/internal/client/domain"
)

// ClientToAsaas maps a local client to the billing-provider customer
// payload. Plan and value have no native field upstream, so they are
// encoded into the observations text.
func ClientToAsaas(client domain.Client) asaas.CustomerInput {
	status := asaas.CustomerStatusInactive
	if client.SubscriptionStatus == domain.SubscriptionActive {
		status = asaas.CustomerStatusActive
	}
	return asaas.CustomerInput{
		Name:              client.ContactName,
		Email:             client.ContactEmail,
		Phone:             client.ContactPhone,
		MobilePhone:       client.ContactPhone,
		CpfCnpj:           client.CNPJ,
		Address:           client.Address,
		PersonType:        asaas.PersonTypeOrganization,
		Observations:      fmt.Sprintf("Plano: %s. Valor: %v", client.Plan, client.SubscriptionValue),
		ExternalReference: client.ID.String(),
		Status:            status,
	}
}

// ImportDefaults are the locally-owned fields of a client record
// built from a remote customer. Nothing on the provider side carries
// these, so the caller supplies them.
type ImportDefaults struct {
	Plan                 string
	Platform             string
	CommissionPercentage float64
	DueDate              int
	StoreName            string
	StoreURL             string
}

// AsaasToClient refreshes the provider-owned fields of a client:
// contact triple, document and address. Plan, billing settings and
// subscription status stay local, so a sync refresh never undoes an
// admin's change.
func AsaasToClient(customer asaas.Customer, client *domain.Client) {
	client.ContactName = customer.Name
	client.ContactEmail = customer.Email
	client.ContactPhone = firstNonEmpty(customer.MobilePhone, customer.Phone)
	client.CNPJ = customer.CpfCnpj
	client.Address = formatAddress(customer)
}

// AsaasToClientCreate builds a brand-new client from the provider
// customer, filling the locally-owned fields from the given defaults.
func AsaasToClientCreate(customer asaas.Customer, defaults ImportDefaults, now time.Time) domain.Client {
	status := domain.SubscriptionInactive
	if customer.Status == asaas.CustomerStatusActive {
		status = domain.SubscriptionActive
	}
	client := domain.Client{
		Plan:                 defaults.Plan,
		Platform:             defaults.Platform,
		SubscriptionStatus:   status,
		SubscriptionValue:    0,
		CommissionPercentage: defaults.CommissionPercentage,
		DueDate:              defaults.DueDate,
		ContractStartDate:    &now,
		StoreName:            firstNonEmpty(defaults.StoreName, customer.Company, customer.Name),
		StoreURL:             defaults.StoreURL,
		NotifyEmail:          true,
		NotifySystem:         true,
		NotifyWhatsapp:       false,
		AsaasID:              &customer.ID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	AsaasToClient(customer, &client)
	return client
}

func formatAddress(customer asaas.Customer) string {
	addr := customer.Address
	if customer.AddressNumber != "" {
		addr = fmt.Sprintf("%s, %s", addr, customer.AddressNumber)
	}
	if customer.Complement != "" {
		addr += " - " + customer.Complement
	}
	if customer.Province != "" {
		addr += ", " + customer.Province
	}
	return strings.Trim(strings.TrimSpace(addr), ",")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
