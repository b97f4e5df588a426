package authsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequestValidate(t *testing.T) {
	valid := LoginRequest{Identifier: "ada@example.com", Password: "secret"}
	assert.NoError(t, valid.Validate())

	missingPassword := LoginRequest{Identifier: "ada@example.com"}
	assert.Error(t, missingPassword.Validate())

	badEmail := LoginRequest{Identifier: "not-an-email", Password: "secret"}
	assert.Error(t, badEmail.Validate())
}

func TestRegistrationCreatePayloadValidate(t *testing.T) {
	valid := RegistrationCreatePayload{
		Name:            "Ada",
		Email:           "ada@example.com",
		Role:            "provider",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
	}
	assert.NoError(t, valid.Validate())

	mismatch := valid
	mismatch.ConfirmPassword = "different11"
	assert.Error(t, mismatch.Validate())

	adminRole := valid
	adminRole.Role = "admin"
	assert.Error(t, adminRole.Validate(), "admin accounts are not self-service")

	unknownRole := valid
	unknownRole.Role = "superuser"
	assert.Error(t, unknownRole.Validate())

	shortPassword := valid
	shortPassword.Password = "short"
	shortPassword.ConfirmPassword = "short"
	assert.Error(t, shortPassword.Validate())
}

func TestFormatValidationErrorToMap(t *testing.T) {
	err := RegistrationCreatePayload{}.Validate()
	out := FormatValidationErrorToMap(err)

	assert.NotEmpty(t, out["name"])
	assert.NotEmpty(t, out["email"])
	assert.NotEmpty(t, out["password"])

	assert.Empty(t, FormatValidationErrorToMap(nil))
	assert.Equal(t, map[string]string{"form": assert.AnError.Error()}, FormatValidationErrorToMap(assert.AnError))
}

func TestRegisterableRoles(t *testing.T) {
	assert.Equal(t, []Role{RoleProvider, RoleBuyer}, registerableRoles())
	assert.Equal(t, []any{"provider", "buyer"}, registerableRoleValues())
}

func TestValidateStringEquals(t *testing.T) {
	rule := ValidateStringEquals("secret")
	assert.NoError(t, rule("secret"))
	assert.Error(t, rule("other"))
	assert.Error(t, rule(42))
}
