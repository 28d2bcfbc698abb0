package controllers

import (
	"errors"
	"net/http"

	"gearshop/app/services"
	"gearshop/pkg/bind"
	"gearshop/pkg/response"
)

// AuthController issues admin tokens.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type loginForm struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a JWT.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	errs, err := bind.JSON(r, &form)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.auth.Authenticate(form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not authenticate")
		return
	}

	response.Success(w, map[string]string{"token": token})
}
