package models

// BusinessDetails is the company identity printed in customer emails.
type BusinessDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
