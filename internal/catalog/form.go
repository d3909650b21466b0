package catalog

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/money"
)

// ProductForm is the admin create/edit payload. Price is the pt-BR decimal
// string typed by the admin ("89,50", "1.234,56").
type ProductForm struct {
	SKU              string `json:"sku" validate:"required,max=80"`
	Name             string `json:"name" validate:"required,max=140"`
	Category         string `json:"category" validate:"required,max=80"`
	Purpose          string `json:"purpose" validate:"required,max=80"`
	Price            string `json:"price" validate:"required,max=20"`
	ImageURL         string `json:"image_url" validate:"omitempty,max=500,url"`
	ImageAlt         string `json:"image_alt" validate:"omitempty,max=160"`
	ShortDescription string `json:"short_description" validate:"required,max=220"`
	Description      string `json:"description" validate:"required,max=4000"`
	IsActive         *bool  `json:"is_active"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// normalized returns a copy with surrounding whitespace trimmed from every
// text field; limits apply to the trimmed values.
func (f ProductForm) normalized() ProductForm {
	f.SKU = strings.TrimSpace(f.SKU)
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Purpose = strings.TrimSpace(f.Purpose)
	f.Price = strings.TrimSpace(f.Price)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.ImageAlt = strings.TrimSpace(f.ImageAlt)
	f.ShortDescription = strings.TrimSpace(f.ShortDescription)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// Validate checks field limits and the price grammar.
func (f ProductForm) Validate() (int, error) {
	form := f.normalized()
	if err := formValidator.Struct(form); err != nil {
		return 0, formErrors(err)
	}
	return money.ParsePriceCents(form.Price)
}

// apply validates the form and copies it onto the product. New products
// default to active; edits keep the stored flag unless is_active is sent.
func (f ProductForm) apply(product *models.Product) error {
	cents, err := f.Validate()
	if err != nil {
		return err
	}
	form := f.normalized()

	product.SKU = form.SKU
	product.Name = form.Name
	product.Category = form.Category
	product.Purpose = form.Purpose
	product.PriceCents = cents
	product.ImageAlt = form.ImageAlt
	product.ShortDescription = form.ShortDescription
	product.Description = form.Description
	product.ImageURL = nil
	if form.ImageURL != "" {
		url := form.ImageURL
		product.ImageURL = &url
	}
	switch {
	case form.IsActive != nil:
		product.IsActive = *form.IsActive
	case product.ID == uuid.Nil:
		product.IsActive = true
	}
	return nil
}

func formErrors(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			details[fe.Field()] = "is required"
		case "max":
			details[fe.Field()] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "url":
			details[fe.Field()] = "must be a valid url"
		default:
			details[fe.Field()] = "is invalid"
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}
