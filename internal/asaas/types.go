package asaas

// PersonType distinguishes individual and organization payers.
type PersonType string

const (
	PersonTypeIndividual   PersonType = "FISICA"
	PersonTypeOrganization PersonType = "JURIDICA"
)

// CustomerStatus is the provider-side lifecycle status.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// Customer is a billing-provider-owned payer record.
type Customer struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Email                string         `json:"email"`
	Phone                string         `json:"phone"`
	MobilePhone          string         `json:"mobilePhone"`
	Address              string         `json:"address"`
	AddressNumber        string         `json:"addressNumber"`
	Complement           string         `json:"complement"`
	Province             string         `json:"province"`
	PostalCode           string         `json:"postalCode"`
	CpfCnpj              string         `json:"cpfCnpj"`
	PersonType           PersonType     `json:"personType"`
	Status               CustomerStatus `json:"status"`
	ExternalReference    string         `json:"externalReference"`
	NotificationDisabled bool           `json:"notificationDisabled"`
	AdditionalEmails     string         `json:"additionalEmails"`
	Observations         string         `json:"observations"`
	GroupName            string         `json:"groupName"`
	Company              string         `json:"company"`
	DateCreated          string         `json:"dateCreated"`
}

// CustomerPage is one page of the provider's customer list.
type CustomerPage struct {
	Data       []Customer `json:"data"`
	TotalCount int        `json:"totalCount"`
	HasMore    bool       `json:"hasMore"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// CustomerInput is the payload for customer create/update calls.
type CustomerInput struct {
	Name              string         `json:"name,omitempty"`
	Email             string         `json:"email,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	MobilePhone       string         `json:"mobilePhone,omitempty"`
	CpfCnpj           string         `json:"cpfCnpj,omitempty"`
	Address           string         `json:"address,omitempty"`
	PersonType        PersonType     `json:"personType,omitempty"`
	Observations      string         `json:"observations,omitempty"`
	ExternalReference string         `json:"externalReference,omitempty"`
	AdditionalEmails  string         `json:"additionalEmails,omitempty"`
	Status            CustomerStatus `json:"status,omitempty"`
}

// Subscription is a provider-side recurring charge.
type Subscription struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Value             float64 `json:"value"`
	NextDueDate       string  `json:"nextDueDate"`
	BillingType       string  `json:"billingType"`
	Cycle             string  `json:"cycle"`
	Description       string  `json:"description"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"externalReference"`
}

// SubscriptionInput is the payload for subscription create/update calls.
type SubscriptionInput struct {
	Customer          string  `json:"customer,omitempty"`
	Value             float64 `json:"value,omitempty"`
	NextDueDate       string  `json:"nextDueDate,omitempty"`
	BillingType       string  `json:"billingType,omitempty"`
	Cycle             string  `json:"cycle,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}
