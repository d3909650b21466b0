package enums

// ProductCategory is a catalog category. Admins may type new values, so the
// constants below are the suggested set rather than a closed enum.
type ProductCategory string

const (
	ProductCategoryMedicines ProductCategory = "Medicamentos"
	ProductCategoryHygiene   ProductCategory = "Higiene & Cuidados"
	ProductCategoryKids      ProductCategory = "Infantil"
	ProductCategoryWellness  ProductCategory = "Wellness"
	ProductCategoryEquipment ProductCategory = "Equipamentos"
)

var suggestedProductCategories = []ProductCategory{
	ProductCategoryMedicines,
	ProductCategoryHygiene,
	ProductCategoryKids,
	ProductCategoryWellness,
	ProductCategoryEquipment,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsSuggested reports whether the value is part of the curated category list.
func (c ProductCategory) IsSuggested() bool {
	for _, candidate := range suggestedProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ProductCategories returns the curated categories in display order.
func ProductCategories() []ProductCategory {
	return append([]ProductCategory(nil), suggestedProductCategories...)
}

// ProductPurpose describes what a product is used for.
type ProductPurpose string

const (
	ProductPurposeImmunity    ProductPurpose = "Imunidade"
	ProductPurposePainFever   ProductPurpose = "Dor & Febre"
	ProductPurposeDermo       ProductPurpose = "Dermocosméticos"
	ProductPurposeMeasurement ProductPurpose = "Medição"
	ProductPurposeSupplements ProductPurpose = "Vitaminas"
)

var suggestedProductPurposes = []ProductPurpose{
	ProductPurposeImmunity,
	ProductPurposePainFever,
	ProductPurposeDermo,
	ProductPurposeMeasurement,
	ProductPurposeSupplements,
}

// String implements fmt.Stringer.
func (p ProductPurpose) String() string {
	return string(p)
}

// IsSuggested reports whether the value is part of the curated purpose list.
func (p ProductPurpose) IsSuggested() bool {
	for _, candidate := range suggestedProductPurposes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ProductPurposes returns the curated purposes in display order.
func ProductPurposes() []ProductPurpose {
	return append([]ProductPurpose(nil), suggestedProductPurposes...)
}

// FilterAll is the sentinel accepted by catalog filters for "any value".
const FilterAll = "all"
