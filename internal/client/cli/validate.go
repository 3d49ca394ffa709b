package cli

import (
	"regexp"
	"strings"

	"github.com/estoquehub/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError lists every problem found in a form.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func result(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func ValidateLogin(email, password string) error {
	var problems []string
	problems = appendEmail(problems, email)
	if password == "" {
		problems = append(problems, "password is required")
	}
	return result(problems)
}

func ValidateRegister(name, email, password string) error {
	var problems []string
	switch name = strings.TrimSpace(name); {
	case name == "":
		problems = append(problems, "name is required")
	case len([]rune(name)) < 3:
		problems = append(problems, "name must be at least 3 characters")
	}
	problems = appendEmail(problems, email)
	switch {
	case password == "":
		problems = append(problems, "password is required")
	case len(password) < 6:
		problems = append(problems, "password must be at least 6 characters")
	}
	return result(problems)
}

func appendEmail(problems []string, email string) []string {
	switch email = strings.TrimSpace(email); {
	case email == "":
		return append(problems, "email is required")
	case !emailPattern.MatchString(email):
		return append(problems, "invalid email")
	}
	return problems
}

// ProductForm is the editable part of a product.
type ProductForm struct {
	Name        string
	SKU         string
	Quantity    int
	MinQuantity int
	Category    string
}

func FormFromProduct(p *model.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		SKU:         p.SKU,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Category:    p.Category,
	}
}

// ValidateProduct checks a form against the loaded products. editingID
// excludes the product being edited from the duplicate sku check. The
// server remains the authority on uniqueness.
func ValidateProduct(form ProductForm, loaded []model.Product, editingID string) error {
	var problems []string

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		problems = append(problems, "product name is required")
	case len([]rune(name)) < 3:
		problems = append(problems, "product name must be at least 3 characters")
	}

	sku := strings.TrimSpace(form.SKU)
	if sku == "" {
		problems = append(problems, "sku is required")
	}
	if form.Quantity < 0 {
		problems = append(problems, "quantity cannot be negative")
	}
	if form.MinQuantity < 0 {
		problems = append(problems, "minimum quantity cannot be negative")
	}

	if sku != "" {
		for _, p := range loaded {
			if editingID != "" && p.ID == editingID {
				continue
			}
			if p.SKU == sku {
				problems = append(problems, "a product with this sku already exists")
				break
			}
		}
	}

	return result(problems)
}
