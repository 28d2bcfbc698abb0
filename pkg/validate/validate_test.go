package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearshop/pkg/validate"
)

type addressForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Line1   string `json:"line1" validate:"required"`
	Line2   string `json:"line2" validate:"nullable,max=255"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"nullable,digits=5"`
	Country string `json:"country" validate:"required,in=UK,USA,France"`
	Age     int    `json:"age" validate:"nullable,gte=18"`
}

func validForm() addressForm {
	return addressForm{
		Name:    "Alice",
		Email:   "alice@example.com",
		Line1:   "123 Main St",
		City:    "London",
		Country: "UK",
	}
}

func TestValidStructHasNoErrors(t *testing.T) {
	errs := validate.Struct(validForm())

	assert.Empty(t, errs)
	assert.False(t, validate.HasErrors(errs))
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(addressForm{})

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "line1")
	assert.Contains(t, errs, "city")
	assert.Contains(t, errs, "country")

	// Nullable fields stay silent when empty.
	assert.NotContains(t, errs, "line2")
	assert.NotContains(t, errs, "zip")
	assert.NotContains(t, errs, "age")
}

func TestWhitespaceCountsAsEmpty(t *testing.T) {
	form := validForm()
	form.City = "   "

	errs := validate.Struct(form)
	assert.Contains(t, errs, "city")
}

func TestEmailRule(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"

	errs := validate.Struct(form)
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
}

func TestDigitsRuleSkippedWhenNullableAndEmpty(t *testing.T) {
	form := validForm()
	form.Zip = ""
	assert.NotContains(t, validate.Struct(form), "zip")

	form.Zip = "1234"
	assert.Contains(t, validate.Struct(form), "zip")

	form.Zip = "12345"
	assert.NotContains(t, validate.Struct(form), "zip")
}

func TestInRuleWithMultiValueParam(t *testing.T) {
	form := validForm()
	form.Country = "Atlantis"

	errs := validate.Struct(form)
	assert.Equal(t, "The selected country is invalid.", errs["country"])

	// max=100 on name must still apply after the multi-value in= rule parsed.
	form = validForm()
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	form.Name = string(long)
	assert.Contains(t, validate.Struct(form), "name")
}

func TestNumericBounds(t *testing.T) {
	form := validForm()
	form.Age = 17
	assert.Contains(t, validate.Struct(form), "age")

	form.Age = 18
	assert.NotContains(t, validate.Struct(form), "age")
}

func TestPointerToStruct(t *testing.T) {
	form := validForm()
	assert.Empty(t, validate.Struct(&form))
}

func TestFirstFailingRuleWins(t *testing.T) {
	form := validForm()
	form.Email = ""

	// required fires before email; only one message per field.
	errs := validate.Struct(form)
	assert.Equal(t, "The email field is required.", errs["email"])
}

type wrapper struct {
	addressForm
	Note string `json:"note" validate:"nullable,max=10"`
}

func TestEmbeddedStructIsValidated(t *testing.T) {
	w := wrapper{addressForm: validForm()}
	w.addressForm.Name = ""

	errs := validate.Struct(w)
	assert.Contains(t, errs, "name")
	assert.NotContains(t, errs, "note")
}
